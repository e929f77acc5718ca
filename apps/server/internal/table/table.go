// Package table runs one game table as an actor: a single goroutine owns
// the engine state and consumes client events from a channel, so no lock
// covers the game itself. A 500ms ticker drives NPC pacing, human turn
// timeouts and the between-round pause.
package table

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"idoubtit-lite/apps/server/internal/codec"
	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
	"idoubtit-lite/doubt/npc"
)

const (
	eventQueueSize = 64
	tickInterval   = 500 * time.Millisecond

	turnTimeout    = 30 * time.Second
	roundPause     = 5 * time.Second
	npcThinkFloor  = 600 * time.Millisecond
	npcThinkJitter = 1200 * time.Millisecond

	// A table with no connected humans for this long shuts itself down.
	idleTimeout = 2 * time.Minute
)

// Error codes carried in codec.ErrorResponse.
const (
	CodeTableFull   = 1001
	CodeNotSeated   = 1002
	CodeNotYourTurn = 1003
	CodeBadPlay     = 1004
	CodeBadDoubt    = 1005
	CodeRoundClosed = 1006
	CodeBadEnvelope = 1007
)

// Sink delivers one server envelope to a connected client. Implementations
// must not block; the gateway drops on a full send buffer.
type Sink func(*codec.ServerEnvelope)

type EventType int

const (
	EventJoin EventType = iota + 1
	EventLeave
	EventPlay
	EventDoubt
	EventSnapshot
	eventBanter // internal, posted back by the narrator goroutine
)

// Event 桌子事件，带可选响应通道
type Event struct {
	Type     EventType
	UserID   uint64
	Nickname string
	Sink     Sink

	Play  *codec.PlayRequest
	Chat  *codec.Banter
	Reply chan *codec.ServerEnvelope
}

// Narrator produces a short table line for a game moment. Implementations
// run their own I/O; Speak is called from a separate goroutine.
type Narrator interface {
	Speak(persona *npc.Persona, moment string) (string, error)
}

type Options struct {
	ID         string
	Wacky      bool
	Level      doubt.Difficulty
	Seats      int // total seats including the human slot
	HumanSeats int // defaults to 1
	Seed       int64
	Registry   *npc.PersonaRegistry
	Narrator   Narrator // optional

	// OnIdle is called once when the table reaps itself for having no
	// connected humans; the lobby uses it to drop its registry entry.
	OnIdle func(id string)
}

type seatInfo struct {
	Seat     int
	Name     string
	Human    bool
	Level    doubt.Difficulty
	Persona  *npc.Persona
	UserID   uint64 // 0 when NPC or vacant
	Sink     Sink
	Occupied bool
}

// Table owns one game loop. All fields past the channels are touched only
// by the run goroutine.
type Table struct {
	ID string

	events   chan *Event
	done     chan struct{}
	stopOnce sync.Once

	opts  Options
	rng   *rand.Rand
	seats []*seatInfo

	game      *doubt.Game
	round     uint32
	serverSeq uint64

	npcActAt      time.Time
	humanDeadline time.Time
	nextRoundAt   time.Time
	idleSince     time.Time
}

func New(opts Options) (*Table, error) {
	if opts.Seats < 2 || opts.Seats > 8 {
		return nil, fmt.Errorf("table seats must be 2-8, got %d", opts.Seats)
	}
	if opts.HumanSeats <= 0 {
		opts.HumanSeats = 1
	}
	if opts.HumanSeats > opts.Seats-1 {
		return nil, fmt.Errorf("table needs at least one npc seat")
	}
	if opts.Registry == nil {
		opts.Registry = npc.NewRegistry()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	t := &Table{
		ID:        opts.ID,
		events:    make(chan *Event, eventQueueSize),
		done:      make(chan struct{}),
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		idleSince: time.Now(),
	}
	t.seatNPCs()

	go t.run()
	return t, nil
}

// seatNPCs fills every seat past the human slots with a persona.
func (t *Table) seatNPCs() {
	npcCount := t.opts.Seats - t.opts.HumanSeats
	personas := t.opts.Registry.PickTable(t.opts.Level, npcCount, t.opts.Seed)

	t.seats = make([]*seatInfo, t.opts.Seats)
	for i := 0; i < t.opts.HumanSeats; i++ {
		t.seats[i] = &seatInfo{Seat: i, Human: true, Level: t.opts.Level}
	}
	for i, p := range personas {
		seat := t.opts.HumanSeats + i
		t.seats[seat] = &seatInfo{
			Seat:     seat,
			Name:     p.Name,
			Human:    false,
			Level:    p.Level,
			Persona:  p,
			Occupied: true,
		}
	}
}

func (t *Table) SubmitEvent(ev *Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.done:
		return false
	}
}

func (t *Table) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *Table) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	log.Printf("[Table %s] started, %d seats, level=%s wacky=%v",
		t.ID, t.opts.Seats, t.opts.Level, t.opts.Wacky)

	for {
		select {
		case <-t.done:
			log.Printf("[Table %s] stopped", t.ID)
			return
		case ev := <-t.events:
			t.handleEvent(ev)
		case <-ticker.C:
			t.onTick()
		}
	}
}

func (t *Table) handleEvent(ev *Event) {
	switch ev.Type {
	case EventJoin:
		t.handleJoin(ev)
	case EventLeave:
		t.handleLeave(ev)
	case EventPlay:
		t.handlePlay(ev)
	case EventDoubt:
		t.handleDoubt(ev)
	case EventSnapshot:
		t.handleSnapshot(ev)
	case eventBanter:
		if ev.Chat != nil {
			env := t.wrap(codec.ServerTypeBanter)
			env.Banter = ev.Chat
			t.broadcast(env)
		}
	}
}

func (t *Table) handleJoin(ev *Event) {
	// Rejoin keeps the seat, only the sink is refreshed.
	if si := t.seatOf(ev.UserID); si != nil {
		si.Sink = ev.Sink
		t.replySnapshot(ev, si.Seat)
		return
	}

	var si *seatInfo
	for _, s := range t.seats {
		if s.Human && !s.Occupied {
			si = s
			break
		}
	}
	if si == nil {
		t.replyError(ev, CodeTableFull, "table is full")
		return
	}
	si.Occupied = true
	si.UserID = ev.UserID
	si.Sink = ev.Sink
	si.Name = ev.Nickname
	if si.Name == "" {
		si.Name = fmt.Sprintf("Player%d", si.Seat)
	}
	log.Printf("[Table %s] user %d seated at %d as %q", t.ID, ev.UserID, si.Seat, si.Name)

	env := t.wrap(codec.ServerTypeSeatUpdate)
	env.SeatUpdate = &codec.SeatUpdate{Seat: si.Seat, UserID: si.UserID, Nickname: si.Name}
	t.broadcast(env)
	t.replySnapshot(ev, si.Seat)

	if t.game == nil && t.humansReady() {
		t.startRound()
	}
}

func (t *Table) handleLeave(ev *Event) {
	si := t.seatOf(ev.UserID)
	if si == nil {
		return
	}
	log.Printf("[Table %s] user %d left seat %d", t.ID, ev.UserID, si.Seat)
	si.Sink = nil
	// The seat stays in the round; the turn timeout auto-plays for it.
	env := t.wrap(codec.ServerTypeSeatUpdate)
	env.SeatUpdate = &codec.SeatUpdate{Seat: si.Seat, UserID: si.UserID, Left: true}
	t.broadcast(env)
}

func (t *Table) handlePlay(ev *Event) {
	si := t.seatOf(ev.UserID)
	if si == nil {
		t.replyError(ev, CodeNotSeated, "not seated at this table")
		return
	}
	if t.game == nil || t.game.IsRoundOver() {
		t.replyError(ev, CodeRoundClosed, "no round in progress")
		return
	}
	if ev.Play == nil {
		t.replyError(ev, CodeBadEnvelope, "play payload missing")
		return
	}

	cards, err := codec.ParseCards(ev.Play.Cards)
	if err != nil {
		t.replyError(ev, CodeBadPlay, err.Error())
		return
	}
	claim, err := card.ParseRank(ev.Play.Claim)
	if err != nil {
		t.replyError(ev, CodeBadPlay, err.Error())
		return
	}

	res, err := t.game.PlayCards(si.Seat, cards, claim)
	if err != nil {
		t.replyError(ev, CodeBadPlay, err.Error())
		return
	}
	t.replySnapshot(ev, si.Seat)
	t.afterPlay(res)
}

func (t *Table) handleDoubt(ev *Event) {
	si := t.seatOf(ev.UserID)
	if si == nil {
		t.replyError(ev, CodeNotSeated, "not seated at this table")
		return
	}
	if t.game == nil || t.game.IsRoundOver() {
		t.replyError(ev, CodeRoundClosed, "no round in progress")
		return
	}
	res, err := t.game.CallDoubt(si.Seat)
	if err != nil {
		t.replyError(ev, CodeBadDoubt, err.Error())
		return
	}
	t.replySnapshot(ev, si.Seat)
	t.afterDoubt(res)
}

func (t *Table) handleSnapshot(ev *Event) {
	seat := doubt.InvalidSeat
	if si := t.seatOf(ev.UserID); si != nil {
		seat = si.Seat
	}
	t.replySnapshot(ev, seat)
}

func (t *Table) onTick() {
	now := time.Now()

	if t.anyHumanConnected() {
		t.idleSince = time.Time{}
	} else {
		if t.idleSince.IsZero() {
			t.idleSince = now
		}
		if now.Sub(t.idleSince) > idleTimeout {
			log.Printf("[Table %s] idle with no humans, shutting down", t.ID)
			if t.opts.OnIdle != nil {
				t.opts.OnIdle(t.ID)
			}
			t.Stop()
			return
		}
	}

	if t.game == nil || t.game.IsRoundOver() {
		if !t.nextRoundAt.IsZero() && now.After(t.nextRoundAt) && t.humansReady() {
			t.startRound()
		}
		return
	}

	if t.game.CurrentIsNPC() {
		if now.After(t.npcActAt) {
			t.stepNPC()
		}
		return
	}

	if !t.humanDeadline.IsZero() && now.After(t.humanDeadline) {
		t.autoPlay(t.game.CurrentSeat())
	}
}

func (t *Table) startRound() {
	t.round++
	seed := t.rng.Int63()

	seats := make([]doubt.SeatConfig, len(t.seats))
	for i, si := range t.seats {
		sc := doubt.SeatConfig{Name: si.Name, Human: si.Human, Level: si.Level}
		if !si.Human {
			profile := npc.ProfileFor(si.Level)
			if si.Persona != nil {
				profile = si.Persona.Brain
			}
			sc.Policy = npc.NewRulePolicy(si.Level, profile, seed+int64(i))
		}
		seats[i] = sc
	}

	game, err := doubt.NewRound(doubt.Config{Seats: seats, Wacky: t.opts.Wacky, Seed: seed})
	if err != nil {
		log.Printf("[Table %s] round start failed: %v", t.ID, err)
		t.nextRoundAt = time.Now().Add(roundPause)
		return
	}
	t.game = game
	t.nextRoundAt = time.Time{}
	log.Printf("[Table %s] round %d started, starter seat %d", t.ID, t.round, game.CurrentSeat())

	env := t.wrap(codec.ServerTypeRoundStart)
	env.RoundStart = &codec.RoundStart{
		Round:    t.round,
		Wacky:    game.Wacky(),
		ClaimCap: game.ClaimCap(),
		Starter:  game.CurrentSeat(),
	}
	t.broadcast(env)
	t.broadcastSnapshots()
	t.promptTurn()
}

// afterPlay broadcasts the result and moves the loop along.
func (t *Table) afterPlay(res *doubt.PlayResult) {
	env := t.wrap(codec.ServerTypePlayResult)
	env.PlayResult = &codec.PlayResult{
		Seat:     res.Seat,
		Claim:    res.Claim.String(),
		NumCards: res.NumCards,
		HandSize: res.HandSize,
		PileSize: res.PileSize,
		Emptied:  res.Emptied,
		NextSeat: res.NextSeat,
	}
	t.broadcast(env)
	t.speak(res.Seat, fmt.Sprintf("just played %d card(s) claiming %s", res.NumCards, res.Claim))
	t.afterAction(res.RoundOver)
}

func (t *Table) afterDoubt(res *doubt.DoubtResult) {
	env := t.wrap(codec.ServerTypeDoubtResult)
	env.DoubtResult = &codec.DoubtResult{
		Caller:    res.Caller,
		Claimant:  res.Claimant,
		Rank:      res.Rank.String(),
		Succeeded: res.Succeeded,
		Receiver:  res.Receiver,
		Revealed:  codec.CardsToWire(res.CardsMoved),
		NextSeat:  res.NextSeat,
	}
	t.broadcast(env)
	// The pile moved hands, everyone needs a fresh private view.
	t.broadcastSnapshots()
	moment := "doubted and was wrong"
	if res.Succeeded {
		moment = "caught a bluff"
	}
	t.speak(res.Caller, moment)
	t.afterAction(res.RoundOver)
}

func (t *Table) afterAction(roundOver bool) {
	if roundOver {
		t.endRound()
		return
	}
	t.promptTurn()
}

func (t *Table) endRound() {
	snap := t.game.Snapshot()
	winnerName := ""
	if w := t.game.Winner(); w != doubt.InvalidSeat {
		winnerName = t.seats[w].Name
	}
	sizes := make([]int, len(snap.Players))
	for _, p := range snap.Players {
		sizes[p.Seat] = p.HandSize
	}
	log.Printf("[Table %s] round %d over, winner %q", t.ID, t.round, winnerName)

	env := t.wrap(codec.ServerTypeRoundEnd)
	env.RoundEnd = &codec.RoundEnd{
		Round:       t.round,
		Winner:      t.game.Winner(),
		WinnerName:  winnerName,
		FinishOrder: snap.FinishOrder,
		HandSizes:   sizes,
	}
	t.broadcast(env)
	t.humanDeadline = time.Time{}
	t.nextRoundAt = time.Now().Add(roundPause)
}

// promptTurn announces whose turn it is and arms the matching timer.
func (t *Table) promptTurn() {
	seat := t.game.CurrentSeat()
	if seat == doubt.InvalidSeat {
		return
	}
	claim := t.game.PendingClaim()

	env := t.wrap(codec.ServerTypeTurnPrompt)
	prompt := &codec.TurnPrompt{
		Seat:     seat,
		ClaimCap: t.game.ClaimCap(),
		PileSize: claim.Total,
		CanDoubt: claim.Total > 0 && claim.Claimant != seat,
	}
	if claim.Total > 0 {
		prompt.ClaimRank = claim.Rank.String()
	}

	if t.seats[seat].Human {
		t.humanDeadline = time.Now().Add(turnTimeout)
		prompt.DeadlineMs = t.humanDeadline.UnixMilli()
	} else {
		t.humanDeadline = time.Time{}
		t.npcActAt = time.Now().Add(npcThinkFloor +
			time.Duration(t.rng.Int63n(int64(npcThinkJitter))))
	}
	env.TurnPrompt = prompt
	t.broadcast(env)
}

func (t *Table) stepNPC() {
	step, err := t.game.AdvanceNPC()
	if err != nil {
		log.Printf("[Table %s] npc step failed: %v", t.ID, err)
		return
	}
	if step == nil {
		return
	}
	if step.Doubt != nil {
		t.afterDoubt(step.Doubt)
		return
	}
	if step.Play != nil {
		t.afterPlay(step.Play)
	}
}

// autoPlay acts for a human seat that ran out the clock: one honest card
// when possible, otherwise the first card bluffed under the open rank.
func (t *Table) autoPlay(seat int) {
	hand := t.game.HandOf(seat)
	if len(hand) == 0 {
		return
	}
	claim := t.game.PendingClaim()

	pick := hand[0]
	rank := claim.Rank
	if claim.Total == 0 {
		rank = pick.Rank()
		if !rank.Natural() {
			// joker in hand but an opening claim must name a real rank
			rank = card.RankAce
		}
	} else {
		for _, c := range hand {
			if c.Matches(claim.Rank, t.game.Wacky()) {
				pick = c
				break
			}
		}
	}

	log.Printf("[Table %s] seat %d timed out, auto-playing", t.ID, seat)
	res, err := t.game.PlayCards(seat, []card.Card{pick}, rank)
	if err != nil {
		log.Printf("[Table %s] auto-play failed: %v", t.ID, err)
		return
	}
	t.afterPlay(res)
}

// speak hands a moment to the narrator off the actor goroutine and posts
// the line back as an internal event.
func (t *Table) speak(seat int, moment string) {
	if t.opts.Narrator == nil {
		return
	}
	si := t.seats[seat]
	if si.Human || si.Persona == nil {
		return
	}
	persona := si.Persona
	go func() {
		line, err := t.opts.Narrator.Speak(persona, moment)
		if err != nil || line == "" {
			return
		}
		t.SubmitEvent(&Event{
			Type: eventBanter,
			Chat: &codec.Banter{Seat: seat, Name: persona.Name, Text: line},
		})
	}()
}

func (t *Table) seatOf(userID uint64) *seatInfo {
	if userID == 0 {
		return nil
	}
	for _, si := range t.seats {
		if si.Occupied && si.UserID == userID {
			return si
		}
	}
	return nil
}

func (t *Table) anyHumanConnected() bool {
	for _, si := range t.seats {
		if si.Human && si.Sink != nil {
			return true
		}
	}
	return false
}

func (t *Table) humansReady() bool {
	for _, si := range t.seats {
		if si.Human && !si.Occupied {
			return false
		}
	}
	return true
}

func (t *Table) seatNames() map[int]string {
	names := make(map[int]string, len(t.seats))
	for _, si := range t.seats {
		names[si.Seat] = si.Name
	}
	return names
}

func (t *Table) wrap(typ string) *codec.ServerEnvelope {
	t.serverSeq++
	return codec.WrapServerEnvelope(t.ID, t.serverSeq, typ)
}

// broadcast sends one shared envelope to every connected human.
func (t *Table) broadcast(env *codec.ServerEnvelope) {
	for _, si := range t.seats {
		if si.Sink != nil {
			si.Sink(env)
		}
	}
}

// broadcastSnapshots sends each viewer their own filtered snapshot.
func (t *Table) broadcastSnapshots() {
	if t.game == nil {
		return
	}
	snap := t.game.Snapshot()
	names := t.seatNames()
	for _, si := range t.seats {
		if si.Sink == nil {
			continue
		}
		env := t.wrap(codec.ServerTypeTableSnapshot)
		env.TableSnapshot = codec.SnapshotForViewer(snap, si.Seat, names)
		si.Sink(env)
	}
}

func (t *Table) replySnapshot(ev *Event, seat int) {
	if ev.Reply == nil {
		return
	}
	env := t.wrap(codec.ServerTypeTableSnapshot)
	if t.game != nil {
		env.TableSnapshot = codec.SnapshotForViewer(t.game.Snapshot(), seat, t.seatNames())
	} else {
		env.TableSnapshot = t.lobbySnapshot()
	}
	ev.Reply <- env
}

// lobbySnapshot covers the window before the first deal.
func (t *Table) lobbySnapshot() *codec.TableSnapshot {
	ts := &codec.TableSnapshot{
		Wacky:       t.opts.Wacky,
		ClaimCap:    doubt.StandardClaimCap,
		Phase:       "waiting",
		CurrentSeat: doubt.InvalidSeat,
		Winner:      doubt.InvalidSeat,
	}
	if t.opts.Wacky {
		ts.ClaimCap = doubt.WackyClaimCap
	}
	for _, si := range t.seats {
		ts.Players = append(ts.Players, codec.PlayerView{
			Seat:  si.Seat,
			Name:  si.Name,
			Human: si.Human,
			Level: si.Level.String(),
		})
	}
	return ts
}

func (t *Table) replyError(ev *Event, code int32, msg string) {
	if ev.Reply == nil {
		return
	}
	env := t.wrap(codec.ServerTypeError)
	env.Error = &codec.ErrorResponse{Code: code, Message: msg}
	ev.Reply <- env
}
