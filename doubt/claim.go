package doubt

import "idoubtit-lite/card"

// ClaimEntry records one play into the pending window: who played, what
// rank they declared, and how many cards went down.
type ClaimEntry struct {
	Seat  int
	Rank  card.Rank
	Count int
}

// pendingClaim is the face-down pile for the current claim window. It
// accumulates across plays and is only ever cleared by a resolved doubt.
type pendingClaim struct {
	cards   card.CardList
	entries []ClaimEntry
}

func (pc *pendingClaim) empty() bool {
	return len(pc.entries) == 0
}

func (pc *pendingClaim) add(seat int, rank card.Rank, cards []card.Card) {
	pc.cards.Add(cards...)
	pc.entries = append(pc.entries, ClaimEntry{Seat: seat, Rank: rank, Count: len(cards)})
}

// rank is the window's current declared rank: the most recent claim's.
func (pc *pendingClaim) rank() card.Rank {
	if pc.empty() {
		return card.RankInvalid
	}
	return pc.entries[len(pc.entries)-1].Rank
}

// claimant is the seat a doubt call resolves against.
func (pc *pendingClaim) claimant() int {
	if pc.empty() {
		return InvalidSeat
	}
	return pc.entries[len(pc.entries)-1].Seat
}

// claimedOfRank sums the cards declared as rank across the window.
func (pc *pendingClaim) claimedOfRank(rank card.Rank) int {
	n := 0
	for _, e := range pc.entries {
		if e.Rank == rank {
			n += e.Count
		}
	}
	return n
}

func (pc *pendingClaim) total() int {
	return pc.cards.Count()
}

// take empties the pile and returns its cards for redistribution.
func (pc *pendingClaim) take() []card.Card {
	out := make([]card.Card, len(pc.cards))
	copy(out, pc.cards)
	pc.cards = nil
	pc.entries = nil
	return out
}

// ClaimSnapshot is the query-surface view of the pending window.
// Cards are the face-down pile contents; presentation layers must not show
// them to players.
type ClaimSnapshot struct {
	Rank     card.Rank
	Claimant int
	Total    int
	Entries  []ClaimEntry
	Cards    []card.Card
}

func (pc *pendingClaim) snapshot() ClaimSnapshot {
	return ClaimSnapshot{
		Rank:     pc.rank(),
		Claimant: pc.claimant(),
		Total:    pc.total(),
		Entries:  append([]ClaimEntry{}, pc.entries...),
		Cards:    append([]card.Card{}, pc.cards...),
	}
}
