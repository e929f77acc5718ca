package doubt

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"idoubtit-lite/card"
)

// Game is a single round of I Doubt It. Construction deals the whole deck;
// the round runs until at most one hand is non-empty. All mutating calls are
// serialized on one mutex; randomness comes from one seeded source so a
// round replays deterministically.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	players []*Player
	nodes   []*seatNode

	phase   Phase
	curNode *seatNode
	claim   pendingClaim

	finishOrder []int
	winner      int
}

// NewRound validates the config, shuffles (riffle → uniform → riffle, unless
// a deck override is given), and deals every card round-robin from seat 0.
func NewRound(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		phase:  PhaseTypeAwaitingPlay,
		winner: InvalidSeat,
	}

	for _, sc := range cfg.Seats {
		g.players = append(g.players, &Player{
			Name:   sc.Name,
			Human:  sc.Human,
			Level:  sc.Level,
			policy: sc.Policy,
		})
	}

	// Ring list in seat order
	var first, last *seatNode
	for seat, p := range g.players {
		node := &seatNode{Seat: seat, Player: p}
		g.nodes = append(g.nodes, node)
		if first == nil {
			first = node
		}
		if last != nil {
			last.Next = node
		}
		last = node
	}
	last.Next = first
	g.curNode = first

	g.dealAll()
	return g, nil
}

// dealAll consumes the deck completely; hand sizes differ by at most 1.
func (g *Game) dealAll() {
	var deck card.CardList
	if g.cfg.DeckOverride != nil {
		deck.Init(g.cfg.DeckOverride)
	} else {
		deck.Init(card.DeckFor(g.cfg.Wacky))
		deck.ThoroughShuffle(g.rng)
	}
	for i := 0; ; i++ {
		c, err := deck.Draw()
		if err != nil {
			break
		}
		g.players[i%len(g.players)].AddCards(c)
	}
}

// PlayCards plays cards face-down declaring claim. Valid only for the
// current seat; 1..cap cards, all held by the player. On success the cards
// join the pending pile and the turn advances past empty hands.
func (g *Game) PlayCards(seat int, cards []card.Card, claim card.Rank) (*PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playCardsLocked(seat, cards, claim)
}

func (g *Game) playCardsLocked(seat int, cards []card.Card, claim card.Rank) (*PlayResult, error) {
	if g.phase == PhaseTypeRoundOver {
		return nil, ErrRoundOver
	}
	if g.curNode == nil || g.curNode.Seat != seat {
		return nil, ErrNotYourTurn
	}
	if !claim.Natural() {
		return nil, ErrInvalidPlay(fmt.Sprintf("cannot claim rank %s", claim))
	}
	cap := g.cfg.ClaimCap()
	if len(cards) < 1 || len(cards) > cap {
		return nil, ErrInvalidPlay(fmt.Sprintf("must play 1..%d cards, got %d", cap, len(cards)))
	}

	player := g.curNode.Player
	seen := make(map[card.Card]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c]; dup {
			return nil, ErrInvalidPlay(fmt.Sprintf("card %v played twice", c))
		}
		seen[c] = struct{}{}
		if !player.HandCards().Contains(c) {
			return nil, ErrInvalidPlay(fmt.Sprintf("card %v not in hand", c))
		}
	}

	// Validated above; a failure here is an ownership invariant break.
	if err := player.RemoveCards(cards); err != nil {
		return nil, ErrInvalidState("hand mutated during play")
	}

	g.claim.add(seat, claim, cards)
	emptied := !player.HasCards()
	if emptied {
		g.recordFinish(seat)
	}

	g.curNode = g.nextEligible(g.curNode.Next)
	g.checkRoundEnd()

	res := &PlayResult{
		Seat:      seat,
		Claim:     claim,
		NumCards:  len(cards),
		HandSize:  player.HandCards().Count(),
		Emptied:   emptied,
		PileSize:  g.claim.total(),
		NextSeat:  g.currentSeatLocked(),
		RoundOver: g.phase == PhaseTypeRoundOver,
		Winner:    g.winner,
	}
	return res, nil
}

// CallDoubt challenges the pending claim. Resolution is an impossibility
// test: cards claimed as the rank this window plus matching cards still in
// the claimant's hand cannot exceed the per-rank cap. The loser takes the
// whole pile; play resumes after the caller.
func (g *Game) CallDoubt(caller int) (*DoubtResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.callDoubtLocked(caller)
}

func (g *Game) callDoubtLocked(caller int) (*DoubtResult, error) {
	if g.phase == PhaseTypeRoundOver {
		return nil, ErrRoundOver
	}
	if g.claim.empty() {
		return nil, ErrNoPendingClaim
	}
	if caller < 0 || caller >= len(g.players) {
		return nil, ErrInvalidPlay(fmt.Sprintf("no such seat %d", caller))
	}
	claimant := g.claim.claimant()
	if caller == claimant {
		return nil, ErrInvalidPlay("cannot doubt your own claim")
	}

	rank := g.claim.rank()
	wild := g.cfg.Wacky
	actual := g.players[claimant].HandCards().MatchCount(rank, wild) + g.claim.claimedOfRank(rank)
	succeeded := actual > g.cfg.ClaimCap()

	receiver := caller
	if succeeded {
		receiver = claimant
	}
	moved := g.claim.take()
	g.players[receiver].AddCards(moved...)
	g.reopenFinish(receiver)

	// The caller acted last, so the turn advances past the caller.
	g.curNode = g.nextEligible(g.nodes[caller].Next)
	g.checkRoundEnd()

	res := &DoubtResult{
		Caller:     caller,
		Claimant:   claimant,
		Rank:       rank,
		Succeeded:  succeeded,
		Receiver:   receiver,
		CardsMoved: moved,
		NextSeat:   g.currentSeatLocked(),
		RoundOver:  g.phase == PhaseTypeRoundOver,
		Winner:     g.winner,
	}
	return res, nil
}

// AdvanceNPC runs one engine-driven NPC step for the current seat: the NPC
// first decides whether to doubt the pending claim, and plays otherwise.
// Returns nil when the engine is waiting on a human.
func (g *Game) AdvanceNPC() (*NPCStep, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseTypeRoundOver {
		return nil, ErrRoundOver
	}
	if g.curNode == nil {
		return nil, ErrInvalidState("no current player")
	}
	player := g.curNode.Player
	if player.policy == nil {
		return nil, nil
	}
	seat := g.curNode.Seat

	if claimant := g.claim.claimant(); !g.claim.empty() && claimant != seat {
		if player.policy.DecideDoubt(g.doubtViewLocked(seat)) {
			dr, err := g.callDoubtLocked(seat)
			if err != nil {
				return nil, err
			}
			return &NPCStep{Seat: seat, Doubt: dr}, nil
		}
	}

	decision := player.policy.ChooseCardsToPlay(g.playViewLocked(seat))
	claim := decision.Claim
	if claim == card.RankInvalid {
		claim = g.claim.rank()
	}
	pr, err := g.playCardsLocked(seat, decision.Cards, claim)
	if err != nil {
		return nil, err
	}
	return &NPCStep{Seat: seat, Play: pr}, nil
}

func (g *Game) doubtViewLocked(seat int) DoubtView {
	claimant := g.claim.claimant()
	rank := g.claim.rank()
	return DoubtView{
		Seat:              seat,
		Hand:              append([]card.Card{}, g.players[seat].HandCards()...),
		Wacky:             g.cfg.Wacky,
		ClaimCap:          g.cfg.ClaimCap(),
		ClaimRank:         rank,
		ClaimedCount:      g.claim.claimedOfRank(rank),
		ClaimantSeat:      claimant,
		ClaimantRemaining: g.players[claimant].HandCards().Count(),
	}
}

func (g *Game) playViewLocked(seat int) PlayView {
	sizes := make([]int, len(g.players))
	for i, p := range g.players {
		sizes[i] = p.HandCards().Count()
	}
	return PlayView{
		Seat:      seat,
		Hand:      append([]card.Card{}, g.players[seat].HandCards()...),
		Wacky:     g.cfg.Wacky,
		ClaimCap:  g.cfg.ClaimCap(),
		ClaimRank: g.claim.rank(),
		HandSizes: sizes,
	}
}

// nextEligible finds the next seat still holding cards, wrapping around.
func (g *Game) nextEligible(from *seatNode) *seatNode {
	return from.walkOnce(func(n *seatNode) bool {
		return n.Player.HasCards()
	})
}

func (g *Game) recordFinish(seat int) {
	for _, s := range g.finishOrder {
		if s == seat {
			return
		}
	}
	g.finishOrder = append(g.finishOrder, seat)
}

// reopenFinish drops a seat from the finish order when a redistribution
// refills its hand.
func (g *Game) reopenFinish(seat int) {
	if !g.players[seat].HasCards() {
		return
	}
	kept := g.finishOrder[:0]
	for _, s := range g.finishOrder {
		if s != seat {
			kept = append(kept, s)
		}
	}
	g.finishOrder = kept
}

// checkRoundEnd ends the round once at most one hand is non-empty. The
// winner is the first seat to have emptied its hand. A finishing play is
// not final while its claim is still the live doubt target: the round
// stays open until that claim resolves or a later play supersedes it.
func (g *Game) checkRoundEnd() {
	nonEmpty := 0
	for _, p := range g.players {
		if p.HasCards() {
			nonEmpty++
		}
	}
	if nonEmpty > 1 {
		return
	}
	if nonEmpty == 1 && !g.claim.empty() && !g.players[g.claim.claimant()].HasCards() {
		return
	}
	g.phase = PhaseTypeRoundOver
	g.curNode = nil
	if len(g.finishOrder) > 0 {
		g.winner = g.finishOrder[0]
	}
}

func (g *Game) currentSeatLocked() int {
	if g.curNode == nil {
		return InvalidSeat
	}
	return g.curNode.Seat
}

// --- query surface (read-only) ---

func (g *Game) CurrentSeat() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentSeatLocked()
}

func (g *Game) HandOf(seat int) []card.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seat < 0 || seat >= len(g.players) {
		return nil
	}
	return append([]card.Card{}, g.players[seat].HandCards()...)
}

func (g *Game) PendingClaim() ClaimSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.claim.snapshot()
}

func (g *Game) IsRoundOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == PhaseTypeRoundOver
}

func (g *Game) Winner() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

func (g *Game) Seats() int { return len(g.players) }

func (g *Game) Wacky() bool { return g.cfg.Wacky }

func (g *Game) ClaimCap() int { return g.cfg.ClaimCap() }

// CurrentIsNPC reports whether the engine is waiting on a policy-driven seat.
func (g *Game) CurrentIsNPC() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.curNode != nil && g.curNode.Player.policy != nil
}
