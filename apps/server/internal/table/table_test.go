package table

import (
	"testing"
	"time"

	"idoubtit-lite/apps/server/internal/codec"
	"idoubtit-lite/doubt"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(Options{
		ID:    "table_test",
		Level: doubt.DifficultyMedium,
		Seats: 4,
		Seed:  7,
	})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	t.Cleanup(tbl.Stop)
	return tbl
}

func chanSink(ch chan *codec.ServerEnvelope) Sink {
	return func(env *codec.ServerEnvelope) {
		select {
		case ch <- env:
		default:
		}
	}
}

func submitWait(t *testing.T, tbl *Table, ev *Event) *codec.ServerEnvelope {
	t.Helper()
	ev.Reply = make(chan *codec.ServerEnvelope, 1)
	if !tbl.SubmitEvent(ev) {
		t.Fatalf("table rejected event type %d", ev.Type)
	}
	select {
	case env := <-ev.Reply:
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("no reply for event type %d", ev.Type)
		return nil
	}
}

func awaitType(t *testing.T, ch chan *codec.ServerEnvelope, typ string) *codec.ServerEnvelope {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case env := <-ch:
			if env.Type == typ {
				return env
			}
		case <-deadline:
			t.Fatalf("did not receive %s", typ)
			return nil
		}
	}
}

func TestJoinSeatsHumanAndStartsRound(t *testing.T) {
	tbl := newTestTable(t)
	ch := make(chan *codec.ServerEnvelope, 64)

	reply := submitWait(t, tbl, &Event{
		Type:     EventJoin,
		UserID:   1,
		Nickname: "hero",
		Sink:     chanSink(ch),
	})
	if reply.TableSnapshot == nil {
		t.Fatalf("expected snapshot reply, got %+v", reply)
	}

	start := awaitType(t, ch, codec.ServerTypeRoundStart)
	if start.RoundStart.Round != 1 {
		t.Fatalf("expected round 1, got %d", start.RoundStart.Round)
	}
	if start.RoundStart.ClaimCap != doubt.StandardClaimCap {
		t.Fatalf("expected standard claim cap, got %d", start.RoundStart.ClaimCap)
	}

	snap := awaitType(t, ch, codec.ServerTypeTableSnapshot)
	ts := snap.TableSnapshot
	if len(ts.Players) != 4 {
		t.Fatalf("expected 4 players, got %d", len(ts.Players))
	}
	for _, pv := range ts.Players {
		if pv.Seat == 0 {
			if pv.Name != "hero" {
				t.Errorf("expected hero at seat 0, got %q", pv.Name)
			}
			if len(pv.Hand) != pv.HandSize || pv.HandSize == 0 {
				t.Errorf("expected own hand visible, got %d cards for size %d", len(pv.Hand), pv.HandSize)
			}
		} else {
			if pv.Hand != nil {
				t.Errorf("seat %d hand should be hidden, got %v", pv.Seat, pv.Hand)
			}
			if pv.Human {
				t.Errorf("seat %d should be an NPC", pv.Seat)
			}
		}
	}

	awaitType(t, ch, codec.ServerTypeTurnPrompt)
}

func TestJoinRejectedWhenFull(t *testing.T) {
	tbl := newTestTable(t)
	ch := make(chan *codec.ServerEnvelope, 64)

	submitWait(t, tbl, &Event{Type: EventJoin, UserID: 1, Nickname: "hero", Sink: chanSink(ch)})

	other := make(chan *codec.ServerEnvelope, 64)
	reply := submitWait(t, tbl, &Event{Type: EventJoin, UserID: 2, Nickname: "late", Sink: chanSink(other)})
	if reply.Error == nil || reply.Error.Code != CodeTableFull {
		t.Fatalf("expected table full error, got %+v", reply)
	}
}

func TestRejoinKeepsSeat(t *testing.T) {
	tbl := newTestTable(t)
	ch := make(chan *codec.ServerEnvelope, 64)

	first := submitWait(t, tbl, &Event{Type: EventJoin, UserID: 1, Nickname: "hero", Sink: chanSink(ch)})
	if first.TableSnapshot == nil {
		t.Fatalf("expected snapshot on first join")
	}

	ch2 := make(chan *codec.ServerEnvelope, 64)
	second := submitWait(t, tbl, &Event{Type: EventJoin, UserID: 1, Nickname: "hero", Sink: chanSink(ch2)})
	if second.Error != nil {
		t.Fatalf("rejoin should not error: %+v", second.Error)
	}
	if second.TableSnapshot == nil {
		t.Fatalf("expected snapshot on rejoin")
	}
	for _, pv := range second.TableSnapshot.Players {
		if pv.Seat == 0 && pv.Name != "hero" {
			t.Fatalf("expected original seat retained, got %q", pv.Name)
		}
	}
}

func TestDoubtWithoutClaimRejected(t *testing.T) {
	tbl := newTestTable(t)
	ch := make(chan *codec.ServerEnvelope, 64)

	submitWait(t, tbl, &Event{Type: EventJoin, UserID: 1, Nickname: "hero", Sink: chanSink(ch)})
	awaitType(t, ch, codec.ServerTypeRoundStart)

	reply := submitWait(t, tbl, &Event{Type: EventDoubt, UserID: 1})
	if reply.Error == nil || reply.Error.Code != CodeBadDoubt {
		t.Fatalf("expected doubt rejection, got %+v", reply)
	}
}

func TestActionsFromUnseatedUserRejected(t *testing.T) {
	tbl := newTestTable(t)

	reply := submitWait(t, tbl, &Event{Type: EventDoubt, UserID: 99})
	if reply.Error == nil || reply.Error.Code != CodeNotSeated {
		t.Fatalf("expected not seated error, got %+v", reply)
	}
}
