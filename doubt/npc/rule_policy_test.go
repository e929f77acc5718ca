package npc

import (
	"testing"

	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
)

func playView(hand []card.Card, rank card.Rank) doubt.PlayView {
	return doubt.PlayView{
		Seat:      1,
		Hand:      hand,
		Wacky:     false,
		ClaimCap:  doubt.StandardClaimCap,
		ClaimRank: rank,
		HandSizes: []int{13, len(hand), 13, 13},
	}
}

func TestHonestProfilePlaysOnlyMatches(t *testing.T) {
	p := NewRulePolicy(doubt.DifficultyHard, Profile{
		BluffChance:           0,
		BluffExtraChance:      0,
		DoubtBase:             0,
		DoubtImpossibleChance: 100,
	}, 11)

	hand := []card.Card{
		card.CardSpade5, card.CardHeart5, card.CardClub5,
		card.CardSpadeK, card.CardHeart2, card.CardClub9, card.CardDiamondJ,
	}
	dec := p.ChooseCardsToPlay(playView(hand, card.RankFive))
	if dec.Claim != card.RankFive {
		t.Fatalf("claim = %v, want Five", dec.Claim)
	}
	if len(dec.Cards) != 3 {
		t.Fatalf("zero-bluff profile played %d cards, want the 3 fives", len(dec.Cards))
	}
	for _, c := range dec.Cards {
		if c.Rank() != card.RankFive {
			t.Fatalf("zero-bluff profile played non-matching %v", c)
		}
	}
}

func TestForcedBluffWhenNothingMatches(t *testing.T) {
	p := NewLeveledPolicy(doubt.DifficultyMedium, 12)
	hand := []card.Card{
		card.CardSpadeK, card.CardHeart2, card.CardClub9,
		card.CardDiamondJ, card.CardSpade7, card.CardHeartT,
	}
	for i := 0; i < 200; i++ {
		dec := p.ChooseCardsToPlay(playView(hand, card.RankFive))
		if len(dec.Cards) < 1 {
			t.Fatalf("policy must play at least one card")
		}
		if len(dec.Cards) > doubt.StandardClaimCap {
			t.Fatalf("policy played %d cards, cap is %d", len(dec.Cards), doubt.StandardClaimCap)
		}
	}
}

func TestEasyProfileBluffRate(t *testing.T) {
	p := NewLeveledPolicy(doubt.DifficultyEasy, 13)
	hand := []card.Card{
		card.CardSpade5,
		card.CardSpadeK, card.CardHeart2, card.CardClub9,
		card.CardDiamondJ, card.CardSpade7, card.CardHeartT, card.CardClubA,
	}

	const rounds = 4000
	padded := 0
	for i := 0; i < rounds; i++ {
		dec := p.ChooseCardsToPlay(playView(hand, card.RankFive))
		if len(dec.Cards) > 1 {
			padded++
		}
		for _, c := range dec.Cards[:1] {
			if c.Rank() != card.RankFive {
				t.Fatalf("matching card not played first: %v", dec.Cards)
			}
		}
	}

	rate := float64(padded) / float64(rounds)
	if rate < 0.65 || rate > 0.95 {
		t.Fatalf("easy bluff rate = %.3f, want around 0.80", rate)
	}
}

func TestNearEmptyHandNeverBluffs(t *testing.T) {
	p := NewLeveledPolicy(doubt.DifficultyEasy, 14)
	hand := []card.Card{card.CardSpade5, card.CardHeartK}
	for i := 0; i < 200; i++ {
		dec := p.ChooseCardsToPlay(playView(hand, card.RankFive))
		if len(dec.Cards) != 1 || dec.Cards[0] != card.CardSpade5 {
			t.Fatalf("near-empty hand bluffed: %v", dec.Cards)
		}
	}
}

func TestOpeningClaimPicksDeepestRank(t *testing.T) {
	p := NewRulePolicy(doubt.DifficultyHard, Profile{BluffChance: 0}, 15)
	hand := []card.Card{
		card.CardSpadeK, card.CardHeartK, card.CardClubK,
		card.CardSpade2, card.CardHeart9,
	}
	dec := p.ChooseCardsToPlay(playView(hand, card.RankInvalid))
	if dec.Claim != card.RankKing {
		t.Fatalf("opening claim = %v, want King (held 3x)", dec.Claim)
	}
	if len(dec.Cards) != 3 {
		t.Fatalf("opening play = %v, want the 3 kings", dec.Cards)
	}
}

func doubtView(hand []card.Card, rank card.Rank, claimed, remaining int) doubt.DoubtView {
	return doubt.DoubtView{
		Seat:              2,
		Hand:              hand,
		Wacky:             false,
		ClaimCap:          doubt.StandardClaimCap,
		ClaimRank:         rank,
		ClaimedCount:      claimed,
		ClaimantSeat:      0,
		ClaimantRemaining: remaining,
	}
}

func TestImpossibleClaimCalledAtHighRate(t *testing.T) {
	p := NewLeveledPolicy(doubt.DifficultyEasy, 16)
	// Own 4 fives + 1 claimed = 5 > 4: provably a lie.
	hand := []card.Card{card.CardSpade5, card.CardHeart5, card.CardClub5, card.CardDiamond5}

	const rounds = 4000
	calls := 0
	for i := 0; i < rounds; i++ {
		if p.DecideDoubt(doubtView(hand, card.RankFive, 1, 10)) {
			calls++
		}
	}
	rate := float64(calls) / float64(rounds)
	if rate < 0.85 || rate > 0.95 {
		t.Fatalf("impossible-claim call rate = %.3f, want around 0.90", rate)
	}
}

func TestDoubtAggressionOrderedByDifficulty(t *testing.T) {
	hand := []card.Card{card.CardSpadeK, card.CardHeart2}
	view := doubtView(hand, card.RankFive, 2, 9)

	rate := func(level doubt.Difficulty, seed int64) float64 {
		p := NewLeveledPolicy(level, seed)
		const rounds = 4000
		calls := 0
		for i := 0; i < rounds; i++ {
			if p.DecideDoubt(view) {
				calls++
			}
		}
		return float64(calls) / float64(rounds)
	}

	easy := rate(doubt.DifficultyEasy, 17)
	hard := rate(doubt.DifficultyHard, 18)
	if easy < 0.30 || easy > 0.50 {
		t.Fatalf("easy doubt rate = %.3f, want around 0.40", easy)
	}
	if hard < 0.70 || hard > 0.90 {
		t.Fatalf("hard doubt rate = %.3f, want around 0.80", hard)
	}
	if easy >= hard {
		t.Fatalf("difficulty ordering broken: easy=%.3f hard=%.3f", easy, hard)
	}
}

func TestEndgameBonusRaisesDoubtRate(t *testing.T) {
	hand := []card.Card{card.CardSpadeK, card.CardHeart2}
	base := doubtView(hand, card.RankFive, 2, 9)
	endgame := doubtView(hand, card.RankFive, 2, 0)

	const rounds = 4000
	p1 := NewLeveledPolicy(doubt.DifficultyEasy, 19)
	p2 := NewLeveledPolicy(doubt.DifficultyEasy, 19)
	baseCalls, endCalls := 0, 0
	for i := 0; i < rounds; i++ {
		if p1.DecideDoubt(base) {
			baseCalls++
		}
		if p2.DecideDoubt(endgame) {
			endCalls++
		}
	}
	if endCalls <= baseCalls {
		t.Fatalf("endgame bonus missing: base=%d endgame=%d", baseCalls, endCalls)
	}
}

func TestRegistryPickTableDeterministic(t *testing.T) {
	r := NewRegistry()
	if r.Count() < 6 {
		t.Fatalf("builtin persona count = %d", r.Count())
	}
	a := r.PickTable(doubt.DifficultyMedium, 3, 42)
	b := r.PickTable(doubt.DifficultyMedium, 3, 42)
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("pick sizes: %d, %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed picked different tables: %v vs %v", a[i].ID, b[i].ID)
		}
	}
	seen := map[string]bool{}
	for _, p := range a {
		if seen[p.ID] {
			t.Fatalf("duplicate persona %s in table", p.ID)
		}
		seen[p.ID] = true
	}
}
