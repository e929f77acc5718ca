package doubt

import "idoubtit-lite/card"

// PlayResult enumerates what a successful PlayCards changed, so callers can
// present it without re-deriving state.
type PlayResult struct {
	Seat     int
	Claim    card.Rank
	NumCards int
	HandSize int // claimant's hand after the play
	Emptied  bool

	PileSize  int // pending pile after the play
	NextSeat  int // InvalidSeat when the round ended
	RoundOver bool
	Winner    int
}

// DoubtResult enumerates a resolved doubt call. Succeeded means the claim
// was impossible and the claimant takes the pile; otherwise the caller does.
type DoubtResult struct {
	Caller   int
	Claimant int
	Rank     card.Rank

	Succeeded  bool
	Receiver   int
	CardsMoved []card.Card

	NextSeat  int
	RoundOver bool
	Winner    int
}

// NPCStep is one engine-driven NPC action: either a doubt call on the
// pending claim or a play by the current NPC. Both nil means the engine is
// waiting on a human.
type NPCStep struct {
	Seat  int
	Doubt *DoubtResult
	Play  *PlayResult
}
