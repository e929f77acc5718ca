package replay

import (
	"reflect"
	"testing"

	"idoubtit-lite/card"
)

func TestGenerateReplayTape_IsDeterministic(t *testing.T) {
	spec := baseRoundSpec()

	tapeA, err := GenerateReplayTape(spec)
	if err != nil {
		t.Fatalf("GenerateReplayTape A failed: %v", err)
	}
	tapeB, err := GenerateReplayTape(spec)
	if err != nil {
		t.Fatalf("GenerateReplayTape B failed: %v", err)
	}

	if !reflect.DeepEqual(tapeA, tapeB) {
		t.Fatalf("expected deterministic replay tape for the same RoundSpec")
	}
	if len(tapeA.Events) == 0 {
		t.Fatalf("expected non-empty replay tape")
	}

	foundPlay := false
	foundDoubt := false
	for _, e := range tapeA.Events {
		if e.Type == "play" {
			foundPlay = true
		}
		if e.Type == "doubt" {
			foundDoubt = true
		}
	}
	if !foundPlay || !foundDoubt {
		t.Fatalf("expected replay tape to contain play and doubt events")
	}
}

func TestGenerateReplayTape_ReturnsReplayErrorOnOutOfTurnAction(t *testing.T) {
	spec := baseRoundSpec()
	spec.Actions[0].Seat = 1

	_, err := GenerateReplayTape(spec)
	if err == nil {
		t.Fatalf("expected replay generation to fail on out-of-turn action")
	}
	replayErr, ok := err.(*ReplayError)
	if !ok {
		t.Fatalf("expected ReplayError type, got %T", err)
	}
	if replayErr.Reason != "out_of_turn" {
		t.Fatalf("unexpected reason: %s", replayErr.Reason)
	}
	if replayErr.Expected == nil || replayErr.Expected.ActionSeat != 0 {
		t.Fatalf("expected replay error to name the seat on action: %+v", replayErr.Expected)
	}
}

func TestGenerateReplayTape_RejectsUnknownDeckCard(t *testing.T) {
	spec := baseRoundSpec()
	spec.Deck[0] = "Zz"

	_, err := GenerateReplayTape(spec)
	replayErr, ok := err.(*ReplayError)
	if !ok {
		t.Fatalf("expected ReplayError, got %v", err)
	}
	if replayErr.Reason != "invalid_deck_card" {
		t.Fatalf("unexpected reason: %s", replayErr.Reason)
	}
}

func TestToWireReplayTape_KeepsEnvelopesOnly(t *testing.T) {
	tape, err := GenerateReplayTape(baseRoundSpec())
	if err != nil {
		t.Fatalf("GenerateReplayTape failed: %v", err)
	}
	wire := ToWireReplayTape(tape)
	if len(wire.Events) != len(tape.Events) {
		t.Fatalf("wire tape dropped events: %d vs %d", len(wire.Events), len(tape.Events))
	}
	for i, e := range wire.Events {
		if e.EnvelopeB64 == "" {
			t.Fatalf("event %d has empty envelope", i)
		}
		if e.Seq != tape.Events[i].Seq {
			t.Fatalf("event %d seq mismatch", i)
		}
	}
}

// baseRoundSpec deals the unshuffled standard deck round-robin to 3 seats,
// so seat 0 starts with both black aces and seat 1 with the ace of hearts.
func baseRoundSpec() RoundSpec {
	deck := make([]string, 0, 52)
	for _, c := range card.StandardCards() {
		deck = append(deck, c.Wire())
	}
	return RoundSpec{
		Seats: []SeatSpec{
			{Name: "YOU", IsHero: true, Human: true},
			{Name: "P1", Human: true},
			{Name: "P2", Human: true},
		},
		Deck: deck,
		Actions: []ActionSpec{
			{Type: "play", Seat: 0, Cards: []string{"As", "Ad"}, Claim: "Ace"},
			{Type: "play", Seat: 1, Cards: []string{"Ah"}, Claim: "Ace"},
			{Type: "doubt", Seat: 2},
		},
		RNG: &RNGSpec{Seed: 42},
	}
}
