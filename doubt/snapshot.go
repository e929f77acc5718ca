package doubt

import "idoubtit-lite/card"

type PlayerSnapshot struct {
	Seat     int
	Name     string
	Human    bool
	Level    Difficulty
	HandSize int
	Hand     []card.Card
}

type Snapshot struct {
	Phase    Phase
	Wacky    bool
	ClaimCap int

	CurrentSeat int
	Winner      int
	FinishOrder []int

	Claim   ClaimSnapshot
	Players []PlayerSnapshot
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Phase:       g.phase,
		Wacky:       g.cfg.Wacky,
		ClaimCap:    g.cfg.ClaimCap(),
		CurrentSeat: g.currentSeatLocked(),
		Winner:      g.winner,
		FinishOrder: append([]int{}, g.finishOrder...),
		Claim:       g.claim.snapshot(),
	}
	for seat, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			Seat:     seat,
			Name:     p.Name,
			Human:    p.Human,
			Level:    p.Level,
			HandSize: p.HandCards().Count(),
			Hand:     append([]card.Card{}, p.HandCards()...),
		})
	}
	return s
}
