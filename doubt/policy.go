package doubt

import "idoubtit-lite/card"

// PlayView is the read-only projection an NPC policy sees on its turn.
type PlayView struct {
	Seat      int
	Hand      []card.Card
	Wacky     bool
	ClaimCap  int
	ClaimRank card.Rank // RankInvalid when the window is empty
	HandSizes []int     // by seat, the policy's own seat included
}

// PlayDecision is what a policy plays: the cards and the declared rank.
// Cards beyond the matching ones are bluffs.
type PlayDecision struct {
	Cards []card.Card
	Claim card.Rank
}

// DoubtView is the projection a policy sees when deciding whether to
// challenge the pending claim.
type DoubtView struct {
	Seat              int
	Hand              []card.Card
	Wacky             bool
	ClaimCap          int
	ClaimRank         card.Rank
	ClaimedCount      int // cards claimed as ClaimRank this window
	ClaimantSeat      int
	ClaimantRemaining int // cards left in the claimant's hand
}

// Policy decides an NPC's plays and doubt calls. Implementations must be
// pure apart from their own random draws; the engine serializes all calls.
type Policy interface {
	ChooseCardsToPlay(view PlayView) PlayDecision
	DecideDoubt(view DoubtView) bool
}
