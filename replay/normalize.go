package replay

import (
	"fmt"
	"strings"

	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
	"idoubtit-lite/doubt/npc"
)

const (
	actionPlay  = "play"
	actionDoubt = "doubt"
	actionNPC   = "npc"
)

type normalizedAction struct {
	kind  string
	seat  int
	cards []card.Card
	claim card.Rank
}

type normalizedSpec struct {
	wacky    bool
	seats    []doubt.SeatConfig
	heroSeat int
	deck     []card.Card
	actions  []normalizedAction
	seed     int64
}

func normalizeSpec(spec RoundSpec) (normalizedSpec, error) {
	out := normalizedSpec{wacky: spec.Wacky, seed: seedFromSpec(spec.RNG)}

	if len(spec.Seats) < 2 || len(spec.Seats) > 8 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_seats", Message: "2..8 seats are required"}
	}

	heroCount := 0
	for i, seat := range spec.Seats {
		name := strings.TrimSpace(seat.Name)
		if name == "" {
			name = fmt.Sprintf("P%d", i)
		}
		level := doubt.DifficultyMedium
		if seat.Level != "" {
			parsed, err := doubt.ParseDifficulty(seat.Level)
			if err != nil {
				return out, &ReplayError{StepIndex: -1, Reason: "invalid_level", Message: fmt.Sprintf("seat %d: %v", i, err)}
			}
			level = parsed
		}
		sc := doubt.SeatConfig{
			Name:  name,
			Human: seat.Human || seat.IsHero,
			Level: level,
		}
		if !sc.Human {
			// Scripted NPCs draw from the same seed so the whole tape
			// is a pure function of the round spec.
			sc.Policy = npc.NewLeveledPolicy(level, out.seed+int64(i))
		}
		if seat.IsHero {
			heroCount++
			out.heroSeat = i
		}
		out.seats = append(out.seats, sc)
	}
	if heroCount > 1 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_hero", Message: "multiple seats marked as hero"}
	}

	deck, err := parseDeck(spec.Deck, spec.Wacky)
	if err != nil {
		return out, err
	}
	out.deck = deck

	out.actions = make([]normalizedAction, 0, len(spec.Actions))
	for i, a := range spec.Actions {
		na, err := normalizeAction(a, len(spec.Seats))
		if err != nil {
			if re, ok := err.(*ReplayError); ok {
				re.StepIndex = int32(i)
				return out, re
			}
			return out, &ReplayError{StepIndex: int32(i), Reason: "invalid_action", Message: err.Error()}
		}
		out.actions = append(out.actions, na)
	}
	return out, nil
}

func normalizeAction(a ActionSpec, seatCount int) (normalizedAction, error) {
	var na normalizedAction
	na.kind = strings.ToLower(strings.TrimSpace(a.Type))
	na.seat = a.Seat
	na.claim = card.RankInvalid

	switch na.kind {
	case actionPlay:
		if a.Seat < 0 || a.Seat >= seatCount {
			return na, &ReplayError{Reason: "invalid_action_seat", Message: fmt.Sprintf("seat %d not at the table", a.Seat)}
		}
		if len(a.Cards) == 0 {
			return na, &ReplayError{Reason: "invalid_play", Message: "play action needs at least one card"}
		}
		seen := make(map[card.Card]struct{}, len(a.Cards))
		for j, s := range a.Cards {
			c, err := card.ParseCard(strings.TrimSpace(s))
			if err != nil {
				return na, &ReplayError{Reason: "invalid_card", Message: fmt.Sprintf("cards[%d]: %v", j, err)}
			}
			if _, dup := seen[c]; dup {
				return na, &ReplayError{Reason: "invalid_play", Message: fmt.Sprintf("cards[%d] duplicated", j)}
			}
			seen[c] = struct{}{}
			na.cards = append(na.cards, c)
		}
		if a.Claim == "" {
			return na, &ReplayError{Reason: "invalid_play", Message: "play action needs a claimed rank"}
		}
		rank, err := card.ParseRank(a.Claim)
		if err != nil {
			return na, &ReplayError{Reason: "invalid_claim", Message: err.Error()}
		}
		na.claim = rank
	case actionDoubt:
		if a.Seat < 0 || a.Seat >= seatCount {
			return na, &ReplayError{Reason: "invalid_action_seat", Message: fmt.Sprintf("seat %d not at the table", a.Seat)}
		}
	case actionNPC:
		// Seat is informational for npc steps; the engine acts for
		// whichever NPC holds the turn.
	default:
		return na, &ReplayError{Reason: "invalid_action", Message: fmt.Sprintf("unknown action type %q", a.Type)}
	}
	return na, nil
}

func parseDeck(deck []string, wacky bool) ([]card.Card, error) {
	if len(deck) == 0 {
		return nil, nil
	}
	want := len(card.DeckFor(wacky))
	if len(deck) != want {
		return nil, &ReplayError{
			StepIndex: -1,
			Reason:    "invalid_deck",
			Message:   fmt.Sprintf("deck must contain %d cards", want),
		}
	}
	out := make([]card.Card, len(deck))
	seen := make(map[card.Card]struct{}, len(deck))
	for i, s := range deck {
		c, err := card.ParseCard(strings.TrimSpace(s))
		if err != nil {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_deck_card", Message: fmt.Sprintf("deck[%d]: %v", i, err)}
		}
		if c.IsJoker() && !wacky {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_deck_card", Message: fmt.Sprintf("deck[%d]: jokers need wacky mode", i)}
		}
		if _, ok := seen[c]; ok {
			return nil, &ReplayError{StepIndex: -1, Reason: "invalid_deck", Message: fmt.Sprintf("duplicate card in deck[%d]", i)}
		}
		seen[c] = struct{}{}
		out[i] = c
	}
	return out, nil
}

func seedFromSpec(rng *RNGSpec) int64 {
	if rng == nil {
		return 0
	}
	return rng.Seed
}
