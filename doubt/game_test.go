package doubt

import (
	"testing"

	"idoubtit-lite/card"
)

func humanSeats(n int) []SeatConfig {
	names := []string{"North", "East", "South", "West", "Extra5", "Extra6"}
	seats := make([]SeatConfig, n)
	for i := range seats {
		seats[i] = SeatConfig{Name: names[i], Human: true}
	}
	return seats
}

// riggedDeck builds a full standard deck whose round-robin deal gives each
// seat the wanted cards first.
func riggedDeck(t *testing.T, seats int, want map[int][]card.Card) []card.Card {
	t.Helper()
	used := make(map[card.Card]struct{})
	for _, cs := range want {
		for _, c := range cs {
			if _, dup := used[c]; dup {
				t.Fatalf("rigged deck wants %v twice", c)
			}
			used[c] = struct{}{}
		}
	}
	var rest []card.Card
	for _, c := range card.StandardCards() {
		if _, ok := used[c]; !ok {
			rest = append(rest, c)
		}
	}
	deck := make([]card.Card, 0, 52)
	queued := make(map[int][]card.Card, len(want))
	for s, cs := range want {
		queued[s] = append([]card.Card{}, cs...)
	}
	for i := 0; i < 52; i++ {
		seat := i % seats
		if q := queued[seat]; len(q) > 0 {
			deck = append(deck, q[0])
			queued[seat] = q[1:]
			continue
		}
		deck = append(deck, rest[0])
		rest = rest[1:]
	}
	return deck
}

func TestDealConservation(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5} {
		g, err := NewRound(Config{Seats: humanSeats(n), Seed: 1})
		if err != nil {
			t.Fatalf("NewRound(%d seats) err: %v", n, err)
		}
		total := 0
		min, max := 53, 0
		seen := make(map[card.Card]struct{}, 52)
		for seat := 0; seat < n; seat++ {
			hand := g.HandOf(seat)
			total += len(hand)
			if len(hand) < min {
				min = len(hand)
			}
			if len(hand) > max {
				max = len(hand)
			}
			for _, c := range hand {
				if _, dup := seen[c]; dup {
					t.Fatalf("%d seats: card %v dealt twice", n, c)
				}
				seen[c] = struct{}{}
			}
		}
		if total != 52 {
			t.Fatalf("%d seats: dealt %d cards, want 52", n, total)
		}
		if max-min > 1 {
			t.Fatalf("%d seats: hand sizes spread %d..%d", n, min, max)
		}
	}
}

func TestPlayValidation(t *testing.T) {
	g, err := NewRound(Config{Seats: humanSeats(4), Seed: 2})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}
	hand := g.HandOf(0)

	// Out of turn
	if _, err := g.PlayCards(1, g.HandOf(1)[:1], card.RankFive); err != ErrNotYourTurn {
		t.Fatalf("out-of-turn err = %v, want ErrNotYourTurn", err)
	}

	// Too many cards
	if _, err := g.PlayCards(0, hand[:5], card.RankFive); err == nil {
		t.Fatalf("5-card play accepted in non-wacky round")
	} else if _, ok := err.(InvalidPlayError); !ok {
		t.Fatalf("5-card play err = %T, want InvalidPlayError", err)
	}

	// Card not owned by the player
	foreign := g.HandOf(1)[0]
	if _, err := g.PlayCards(0, []card.Card{foreign}, card.RankFive); err == nil {
		t.Fatalf("play with unowned card accepted")
	}

	// Joker is never a claimable rank
	if _, err := g.PlayCards(0, hand[:1], card.RankJoker); err == nil {
		t.Fatalf("joker claim accepted")
	}

	// Nothing above may have mutated state
	if got := g.HandOf(0); len(got) != len(hand) {
		t.Fatalf("failed plays mutated hand: %d -> %d", len(hand), len(got))
	}
	if g.CurrentSeat() != 0 {
		t.Fatalf("failed plays advanced the turn to %d", g.CurrentSeat())
	}
	if g.PendingClaim().Total != 0 {
		t.Fatalf("failed plays grew the pile")
	}
}

func TestPlayAdvancesAndAccumulates(t *testing.T) {
	g, err := NewRound(Config{Seats: humanSeats(4), Seed: 3})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}

	res, err := g.PlayCards(0, g.HandOf(0)[:2], card.RankNine)
	if err != nil {
		t.Fatalf("play err: %v", err)
	}
	if res.NextSeat != 1 || g.CurrentSeat() != 1 {
		t.Fatalf("turn after seat 0 = %d, want 1", g.CurrentSeat())
	}
	if res.PileSize != 2 {
		t.Fatalf("pile = %d, want 2", res.PileSize)
	}

	res, err = g.PlayCards(1, g.HandOf(1)[:3], card.RankNine)
	if err != nil {
		t.Fatalf("play err: %v", err)
	}
	if res.PileSize != 5 {
		t.Fatalf("pile does not accumulate across plays: %d", res.PileSize)
	}

	claim := g.PendingClaim()
	if claim.Rank != card.RankNine || claim.Claimant != 1 || claim.Total != 5 {
		t.Fatalf("claim snapshot = %+v", claim)
	}
	if len(claim.Entries) != 2 {
		t.Fatalf("claim entries = %d, want 2", len(claim.Entries))
	}
}

func TestCallDoubtWithoutClaim(t *testing.T) {
	g, err := NewRound(Config{Seats: humanSeats(3), Seed: 4})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}
	if _, err := g.CallDoubt(1); err != ErrNoPendingClaim {
		t.Fatalf("doubt with empty pile err = %v, want ErrNoPendingClaim", err)
	}
}

func TestDoubtSucceedsOnImpossibleClaim(t *testing.T) {
	// Seat 0 keeps all four Fives and leads with a bluffed King claimed as a
	// Five: 1 claimed + 4 in hand = 5 > 4, so the claim is impossible.
	deck := riggedDeck(t, 4, map[int][]card.Card{
		0: {card.CardSpade5, card.CardHeart5, card.CardClub5, card.CardDiamond5, card.CardSpadeK},
	})
	g, err := NewRound(Config{Seats: humanSeats(4), Seed: 5, DeckOverride: deck})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}

	if _, err := g.PlayCards(0, []card.Card{card.CardSpadeK}, card.RankFive); err != nil {
		t.Fatalf("play err: %v", err)
	}
	res, err := g.CallDoubt(1)
	if err != nil {
		t.Fatalf("doubt err: %v", err)
	}
	if !res.Succeeded {
		t.Fatalf("doubt on impossible claim failed: %+v", res)
	}
	if res.Receiver != 0 {
		t.Fatalf("pile went to seat %d, want claimant 0", res.Receiver)
	}
	if len(res.CardsMoved) != 1 || res.CardsMoved[0] != card.CardSpadeK {
		t.Fatalf("moved cards = %v", res.CardsMoved)
	}
	if got := len(g.HandOf(0)); got != 13 {
		t.Fatalf("claimant hand = %d, want 13 (card returned)", got)
	}
	if g.PendingClaim().Total != 0 {
		t.Fatalf("pile not cleared after doubt")
	}
	if g.CurrentSeat() != 2 {
		t.Fatalf("turn after doubt = %d, want seat after caller", g.CurrentSeat())
	}
}

func TestDoubtFailsOnPlausibleClaim(t *testing.T) {
	// Spec end-to-end scenario: seat 0 plays one genuine Five; 1 claimed +
	// 3 left in hand = 4, not impossible, so the doubt fails and the caller
	// eats the pile.
	deck := riggedDeck(t, 4, map[int][]card.Card{
		0: {card.CardSpade5, card.CardHeart5, card.CardClub5, card.CardDiamond5},
	})
	g, err := NewRound(Config{Seats: humanSeats(4), Seed: 6, DeckOverride: deck})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}

	if _, err := g.PlayCards(0, []card.Card{card.CardSpade5}, card.RankFive); err != nil {
		t.Fatalf("play err: %v", err)
	}
	res, err := g.CallDoubt(1)
	if err != nil {
		t.Fatalf("doubt err: %v", err)
	}
	if res.Succeeded {
		t.Fatalf("doubt succeeded on a plausible claim: %+v", res)
	}
	if res.Receiver != 1 {
		t.Fatalf("pile went to seat %d, want caller 1", res.Receiver)
	}
	if got := len(g.HandOf(1)); got != 14 {
		t.Fatalf("caller hand = %d, want 14", got)
	}
	if got := len(g.HandOf(0)); got != 12 {
		t.Fatalf("claimant hand = %d, want 12", got)
	}
	if res.NextSeat != 2 || g.CurrentSeat() != 2 {
		t.Fatalf("turn after failed doubt = %d, want seat after caller (2)", g.CurrentSeat())
	}
}

func TestWackyDoubtCountsJokersWild(t *testing.T) {
	// Wacky cap is 6. Seat 0 holds four Nines plus both Jokers: leading one
	// bluffed card claimed as Nine gives 1 + 6 wild matches = 7 > 6.
	want := map[int][]card.Card{
		0: {card.CardSpade9, card.CardHeart9, card.CardClub9, card.CardDiamond9,
			card.CardJokerA, card.CardJokerB, card.CardSpadeK},
	}
	used := make(map[card.Card]struct{})
	for _, c := range want[0] {
		used[c] = struct{}{}
	}
	var rest []card.Card
	for _, c := range card.WackyCards() {
		if _, ok := used[c]; !ok {
			rest = append(rest, c)
		}
	}
	deck := make([]card.Card, 0, 54)
	q := append([]card.Card{}, want[0]...)
	for i := 0; i < 54; i++ {
		if i%3 == 0 && len(q) > 0 {
			deck = append(deck, q[0])
			q = q[1:]
			continue
		}
		deck = append(deck, rest[0])
		rest = rest[1:]
	}

	g, err := NewRound(Config{Seats: humanSeats(3), Wacky: true, Seed: 7, DeckOverride: deck})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}
	if _, err := g.PlayCards(0, []card.Card{card.CardSpadeK}, card.RankNine); err != nil {
		t.Fatalf("play err: %v", err)
	}
	res, err := g.CallDoubt(2)
	if err != nil {
		t.Fatalf("doubt err: %v", err)
	}
	if !res.Succeeded {
		t.Fatalf("wacky doubt ignored wild jokers: %+v", res)
	}
}

func TestSelfDoubtRejected(t *testing.T) {
	g, err := NewRound(Config{Seats: humanSeats(3), Seed: 8})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}
	if _, err := g.PlayCards(0, g.HandOf(0)[:1], card.RankAce); err != nil {
		t.Fatalf("play err: %v", err)
	}
	if _, err := g.CallDoubt(0); err == nil {
		t.Fatalf("self-doubt accepted")
	}
}

func TestRoundOverFirstToEmptyWins(t *testing.T) {
	g, err := NewRound(Config{Seats: humanSeats(2), Seed: 9})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}

	// 26 cards each; seat 0 sheds 4 at a time, seat 1 sheds 1. Nobody
	// doubts, so seat 0 empties first: 6x4 + 2.
	for !g.IsRoundOver() {
		seat := g.CurrentSeat()
		hand := g.HandOf(seat)
		n := 1
		if seat == 0 {
			n = 4
			if len(hand) < 4 {
				n = len(hand)
			}
		}
		res, err := g.PlayCards(seat, hand[:n], card.RankAce)
		if err != nil {
			t.Fatalf("seat %d play err: %v", seat, err)
		}
		if res.RoundOver {
			break
		}
	}

	if !g.IsRoundOver() {
		t.Fatalf("round did not end")
	}
	if g.Winner() != 0 {
		t.Fatalf("winner = %d, want 0 (first to empty)", g.Winner())
	}
	if g.CurrentSeat() != InvalidSeat {
		t.Fatalf("current seat after round over = %d", g.CurrentSeat())
	}
	if _, err := g.PlayCards(1, g.HandOf(1)[:1], card.RankAce); err != ErrRoundOver {
		t.Fatalf("play after round over err = %v, want ErrRoundOver", err)
	}
}

func TestDoubtReopensFinishedSeat(t *testing.T) {
	// Seat 0 bluffs away its last card holding nothing else; the doubt
	// succeeds, hands the pile back, and seat 0 is no longer finished.
	deck := riggedDeck(t, 2, map[int][]card.Card{
		0: {card.CardSpade5, card.CardHeart5, card.CardClub5, card.CardDiamond5},
	})
	g, err := NewRound(Config{Seats: humanSeats(2), Seed: 10, DeckOverride: deck})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}

	// Shed seat 0 down to the four Fives, alternating with seat 1.
	for len(g.HandOf(0)) > 4 {
		hand := g.HandOf(0)
		var junk []card.Card
		for _, c := range hand {
			if c.Rank() != card.RankFive {
				junk = append(junk, c)
				if len(junk) == 4 {
					break
				}
			}
		}
		if _, err := g.PlayCards(0, junk, card.RankTwo); err != nil {
			t.Fatalf("seat 0 shed err: %v", err)
		}
		if _, err := g.PlayCards(1, g.HandOf(1)[:1], card.RankTwo); err != nil {
			t.Fatalf("seat 1 shed err: %v", err)
		}
	}

	// Playing all four Fives claimed as Fives, then one more play would end
	// it; instead seat 1 doubts. 4 claimed + 0 in hand = 4, not impossible:
	// doubt fails. Then rig an impossible one.
	res, err := g.PlayCards(0, g.HandOf(0), card.RankFive)
	if err != nil {
		t.Fatalf("final play err: %v", err)
	}
	if !res.Emptied {
		t.Fatalf("seat 0 should have emptied")
	}
	if res.RoundOver {
		t.Fatalf("round ended with a live doubt window and 2 seats")
	}

	dres, err := g.CallDoubt(1)
	if err != nil {
		t.Fatalf("doubt err: %v", err)
	}
	if dres.Succeeded {
		t.Fatalf("four-of-rank claim is not impossible")
	}
	// Caller took the pile; seat 0 stays finished and the round ends when
	// seat 0 is the only empty hand.
	if !dres.RoundOver {
		t.Fatalf("round should end: seat 0 empty, pile cleared")
	}
	if dres.Winner != 0 {
		t.Fatalf("winner = %d, want 0", dres.Winner)
	}
}

func TestWinConfirmedWhenNextPlayLands(t *testing.T) {
	// Seat 0 empties its hand but the win is pending until its claim stops
	// being the doubt target. Seat 1 plays instead of doubting, which makes
	// seat 1 the claimant and confirms the win.
	deck := riggedDeck(t, 2, map[int][]card.Card{
		0: {card.CardSpade5, card.CardHeart5, card.CardClub5, card.CardDiamond5},
	})
	g, err := NewRound(Config{Seats: humanSeats(2), Seed: 11, DeckOverride: deck})
	if err != nil {
		t.Fatalf("NewRound err: %v", err)
	}

	for len(g.HandOf(0)) > 4 {
		hand := g.HandOf(0)
		var junk []card.Card
		for _, c := range hand {
			if c.Rank() != card.RankFive {
				junk = append(junk, c)
				if len(junk) == 4 {
					break
				}
			}
		}
		if _, err := g.PlayCards(0, junk, card.RankTwo); err != nil {
			t.Fatalf("seat 0 shed err: %v", err)
		}
		if _, err := g.PlayCards(1, g.HandOf(1)[:1], card.RankTwo); err != nil {
			t.Fatalf("seat 1 shed err: %v", err)
		}
	}

	res, err := g.PlayCards(0, g.HandOf(0), card.RankFive)
	if err != nil {
		t.Fatalf("final play err: %v", err)
	}
	if !res.Emptied || res.RoundOver {
		t.Fatalf("final play should empty without ending: %+v", res)
	}

	next, err := g.PlayCards(1, g.HandOf(1)[:1], card.RankFive)
	if err != nil {
		t.Fatalf("seat 1 play err: %v", err)
	}
	if !next.RoundOver {
		t.Fatalf("round should end once a later play supersedes the claim")
	}
	if next.Winner != 0 || g.Winner() != 0 {
		t.Fatalf("winner = %d, want 0", g.Winner())
	}
}
