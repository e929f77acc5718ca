package npc

import (
	"math/rand"

	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
)

// RulePolicy implements doubt.Policy from a Profile with its own seeded rng,
// so NPC decisions replay deterministically for a fixed seed.
type RulePolicy struct {
	Level   doubt.Difficulty
	Profile Profile
	rng     *rand.Rand
}

func NewRulePolicy(level doubt.Difficulty, profile Profile, seed int64) *RulePolicy {
	return &RulePolicy{
		Level:   level,
		Profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// NewLeveledPolicy is the common case: stock profile for a difficulty tier.
func NewLeveledPolicy(level doubt.Difficulty, seed int64) *RulePolicy {
	return NewRulePolicy(level, ProfileFor(level), seed)
}

// ChooseCardsToPlay selects all matching cards first (jokers wild in wacky),
// capped by the claim cap, then may pad with random non-matching bluff
// cards. A hand down to its last few cards never bluffs.
func (p *RulePolicy) ChooseCardsToPlay(view doubt.PlayView) doubt.PlayDecision {
	hand := card.CardList(view.Hand)
	rank := view.ClaimRank
	if rank == card.RankInvalid {
		rank = p.pickOpeningRank(hand)
	}

	cards := hand.FindByRank(rank, view.Wacky)
	if len(cards) > view.ClaimCap {
		cards = cards[:view.ClaimCap]
	}

	switch {
	case len(cards) == 0:
		// Nothing matches: forced bluff of at least one card.
		n := 1
		for n < view.ClaimCap && p.roll(p.Profile.BluffExtraChance) {
			n++
		}
		cards = hand.RandomSubset(p.rng, n, nil)
	case len(cards) < view.ClaimCap && hand.Count() > len(cards)+2 && p.roll(p.Profile.BluffChance):
		// Honest cards in hand but short of the cap: pad the play.
		extra := 1
		for len(cards)+extra < view.ClaimCap && p.roll(p.Profile.BluffExtraChance) {
			extra++
		}
		cards = append(cards, hand.RandomSubset(p.rng, extra, cards)...)
	}

	return doubt.PlayDecision{Cards: cards, Claim: rank}
}

// pickOpeningRank declares the natural rank the hand holds most of. A hand
// of nothing but jokers claims a random rank and plays them wild.
func (p *RulePolicy) pickOpeningRank(hand card.CardList) card.Rank {
	best := card.RankInvalid
	bestCount := 0
	for r := card.RankAce; r <= card.RankKing; r++ {
		if n := hand.MatchCount(r, false); n > bestCount {
			best = r
			bestCount = n
		}
	}
	if best == card.RankInvalid {
		best = card.Rank(1 + p.rng.Intn(13))
	}
	return best
}

// DecideDoubt challenges the pending claim. An impossible claim (own
// matches + claimed count exceed the cap) is called at a high fixed rate;
// otherwise the chance is base aggressiveness plus the endgame and
// final-claim bonuses.
func (p *RulePolicy) DecideDoubt(view doubt.DoubtView) bool {
	mine := card.CardList(view.Hand).MatchCount(view.ClaimRank, view.Wacky)
	if mine+view.ClaimedCount > view.ClaimCap {
		return p.roll(p.Profile.DoubtImpossibleChance)
	}

	chance := p.Profile.DoubtBase
	if view.ClaimantRemaining == 0 {
		chance += p.Profile.DoubtEndgameBonus
	}
	if view.ClaimedCount+view.ClaimantRemaining == doubt.FullRankCount {
		chance += p.Profile.DoubtFinalClaimBonus
	}
	if chance > 100 {
		chance = 100
	}
	return p.roll(chance)
}

func (p *RulePolicy) roll(percent int) bool {
	return p.rng.Intn(100) < percent
}
