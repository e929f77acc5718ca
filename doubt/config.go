package doubt

import (
	"fmt"

	"idoubtit-lite/card"
)

// SeatConfig describes one player in the round. NPC seats carry the policy
// deciding their plays and doubt calls; human seats leave it nil and act
// through PlayCards/CallDoubt.
type SeatConfig struct {
	Name   string
	Human  bool
	Level  Difficulty
	Policy Policy
}

type Config struct {
	Seats []SeatConfig

	// Wacky enables the two Jokers and raises the per-claim cap to 6.
	Wacky bool

	// RNG seed (0 => time-based)
	Seed int64

	// DeckOverride replaces the shuffled deck for scripted rounds and tests.
	// Used exactly as given, first card dealt first.
	DeckOverride []card.Card
}

func (c Config) validate() error {
	if len(c.Seats) < 2 {
		return fmt.Errorf("need at least 2 seats, got %d", len(c.Seats))
	}
	if len(c.Seats) > 8 {
		return fmt.Errorf("too many seats: %d", len(c.Seats))
	}
	for i, s := range c.Seats {
		if s.Name == "" {
			return fmt.Errorf("seat %d has no name", i)
		}
		if !s.Human && s.Policy == nil {
			return fmt.Errorf("NPC seat %d has no policy", i)
		}
	}
	if c.DeckOverride != nil {
		want := 52
		if c.Wacky {
			want = 54
		}
		if len(c.DeckOverride) != want {
			return fmt.Errorf("deck override has %d cards, want %d", len(c.DeckOverride), want)
		}
		seen := make(map[card.Card]struct{}, len(c.DeckOverride))
		for _, cc := range c.DeckOverride {
			if _, dup := seen[cc]; dup {
				return fmt.Errorf("deck override has duplicate card %v", cc)
			}
			seen[cc] = struct{}{}
		}
	}
	return nil
}

// ClaimCap 返回单次声明窗口允许的最大张数。
func (c Config) ClaimCap() int {
	if c.Wacky {
		return WackyClaimCap
	}
	return StandardClaimCap
}
