package replay

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
)

const defaultTableID = "replay_local"

// GenerateReplayTape runs the scripted round against a fresh engine and
// records every observable event. The tape is a pure function of the round
// spec: same spec, same tape.
func GenerateReplayTape(spec RoundSpec) (*ReplayTape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	game, err := doubt.NewRound(doubt.Config{
		Seats:        ns.seats,
		Wacky:        ns.wacky,
		Seed:         ns.seed,
		DeckOverride: ns.deck,
	})
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	builder := newTapeBuilder(defaultTableID, ns.heroSeat)
	builder.addRoundStart(game, ns.heroSeat)
	builder.addTurnPrompt(game)

	for stepIdx, action := range ns.actions {
		if game.IsRoundOver() {
			return nil, &ReplayError{
				StepIndex: int32(stepIdx),
				Reason:    "round_already_over",
				Message:   "round is complete; no further actions are allowed",
			}
		}

		switch action.kind {
		case actionPlay:
			if cur := game.CurrentSeat(); cur != action.seat {
				return nil, &ReplayError{
					StepIndex: int32(stepIdx),
					Reason:    "out_of_turn",
					Message:   fmt.Sprintf("expected action seat %d, got %d", cur, action.seat),
					Expected:  expectedState(game),
				}
			}
			res, err := game.PlayCards(action.seat, action.cards, action.claim)
			if err != nil {
				return nil, &ReplayError{
					StepIndex: int32(stepIdx),
					Reason:    "play_rejected",
					Message:   err.Error(),
					Expected:  expectedState(game),
				}
			}
			builder.addPlay(res)
		case actionDoubt:
			res, err := game.CallDoubt(action.seat)
			if err != nil {
				reason := "doubt_rejected"
				if errors.Is(err, doubt.ErrNoPendingClaim) {
					reason = "no_pending_claim"
				}
				return nil, &ReplayError{
					StepIndex: int32(stepIdx),
					Reason:    reason,
					Message:   err.Error(),
					Expected:  expectedState(game),
				}
			}
			builder.addDoubt(res)
		case actionNPC:
			if !game.CurrentIsNPC() {
				return nil, &ReplayError{
					StepIndex: int32(stepIdx),
					Reason:    "awaiting_human",
					Message:   fmt.Sprintf("seat %d is human; npc step cannot act for it", game.CurrentSeat()),
					Expected:  expectedState(game),
				}
			}
			step, err := game.AdvanceNPC()
			if err != nil {
				return nil, &ReplayError{
					StepIndex: int32(stepIdx),
					Reason:    "npc_step_failed",
					Message:   err.Error(),
				}
			}
			switch {
			case step.Doubt != nil:
				builder.addDoubt(step.Doubt)
			case step.Play != nil:
				builder.addPlay(step.Play)
			}
		}

		if game.IsRoundOver() {
			builder.addRoundEnd(game)
			break
		}
		builder.addTurnPrompt(game)
	}

	return &ReplayTape{
		TapeVersion: 1,
		TableID:     builder.tableID,
		HeroSeat:    ns.heroSeat,
		Events:      builder.events,
	}, nil
}

func expectedState(g *doubt.Game) *ExpectedState {
	claim := g.PendingClaim()
	out := &ExpectedState{
		ActionSeat: g.CurrentSeat(),
		ClaimCap:   g.ClaimCap(),
		PileSize:   claim.Total,
	}
	if claim.Total > 0 {
		out.ClaimRank = claim.Rank.String()
	}
	return out
}

type tapeBuilder struct {
	tableID string
	hero    int
	seq     uint64
	events  []ReplayEvent
}

func newTapeBuilder(tableID string, hero int) *tapeBuilder {
	return &tapeBuilder{
		tableID: tableID,
		hero:    hero,
		events:  make([]ReplayEvent, 0, 64),
	}
}

func (b *tapeBuilder) addRoundStart(g *doubt.Game, heroSeat int) {
	snap := g.Snapshot()
	seats := make([]SeatState, 0, len(snap.Players))
	for _, ps := range snap.Players {
		seats = append(seats, SeatState{Seat: ps.Seat, Name: ps.Name, HandSize: ps.HandSize})
	}
	b.pushEvent("roundStart", RoundStartEvent{
		Wacky:    g.Wacky(),
		ClaimCap: g.ClaimCap(),
		Seats:    seats,
		HeroSeat: heroSeat,
		HeroHand: cardsToWire(g.HandOf(heroSeat)),
	})
}

func (b *tapeBuilder) addTurnPrompt(g *doubt.Game) {
	claim := g.PendingClaim()
	ev := TurnPromptEvent{
		Seat:     g.CurrentSeat(),
		ClaimCap: g.ClaimCap(),
		PileSize: claim.Total,
	}
	if claim.Total > 0 {
		ev.ClaimRank = claim.Rank.String()
	}
	b.pushEvent("turnPrompt", ev)
}

func (b *tapeBuilder) addPlay(res *doubt.PlayResult) {
	b.pushEvent("play", PlayEvent{
		Seat:     res.Seat,
		Claim:    res.Claim.String(),
		NumCards: res.NumCards,
		HandSize: res.HandSize,
		PileSize: res.PileSize,
		Emptied:  res.Emptied,
	})
}

func (b *tapeBuilder) addDoubt(res *doubt.DoubtResult) {
	b.pushEvent("doubt", DoubtEvent{
		Caller:     res.Caller,
		Claimant:   res.Claimant,
		Rank:       res.Rank.String(),
		Succeeded:  res.Succeeded,
		Receiver:   res.Receiver,
		CardsMoved: len(res.CardsMoved),
	})
}

func (b *tapeBuilder) addRoundEnd(g *doubt.Game) {
	snap := g.Snapshot()
	sizes := make([]int, 0, len(snap.Players))
	for _, ps := range snap.Players {
		sizes = append(sizes, ps.HandSize)
	}
	b.pushEvent("roundEnd", RoundEndEvent{
		Winner:      snap.Winner,
		FinishOrder: snap.FinishOrder,
		HandSizes:   sizes,
	})
}

func (b *tapeBuilder) pushEvent(kind string, payload any) {
	b.seq++
	// Marshal errors cannot happen for these plain structs.
	raw, _ := json.Marshal(payload)
	b.events = append(b.events, ReplayEvent{
		Type:        kind,
		Seq:         b.seq,
		Value:       raw,
		EnvelopeB64: base64.StdEncoding.EncodeToString(raw),
	})
}

func cardsToWire(cards []card.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Wire()
	}
	return out
}
