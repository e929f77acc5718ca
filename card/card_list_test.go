package card

import (
	"math/rand"
	"testing"
)

func TestStandardDeckComplete(t *testing.T) {
	deck := StandardCards()
	if len(deck) != 52 {
		t.Fatalf("standard deck size = %d, want 52", len(deck))
	}
	seen := make(map[Card]struct{}, 52)
	for _, c := range deck {
		if _, dup := seen[c]; dup {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = struct{}{}
		if c.IsJoker() {
			t.Fatalf("standard deck contains joker %v", c)
		}
		if c.Suit() == NoSuit {
			t.Fatalf("standard deck contains NoSuit card %v", c)
		}
	}
}

func TestWackyDeckComplete(t *testing.T) {
	deck := WackyCards()
	if len(deck) != 54 {
		t.Fatalf("wacky deck size = %d, want 54", len(deck))
	}
	seen := make(map[Card]struct{}, 54)
	jokers := 0
	for _, c := range deck {
		if _, dup := seen[c]; dup {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = struct{}{}
		if c.IsJoker() {
			jokers++
			if c.Suit() != NoSuit {
				t.Fatalf("joker %v has suit %v, want NoSuit", c, c.Suit())
			}
			if c.Rank() != RankJoker {
				t.Fatalf("joker %v rank = %v", c, c.Rank())
			}
		}
	}
	if jokers != 2 {
		t.Fatalf("wacky deck has %d jokers, want 2", jokers)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	var ds CardList
	ds.Init(StandardCards())
	before := make(map[Card]int)
	for _, c := range ds {
		before[c]++
	}

	ds.ThoroughShuffle(rand.New(rand.NewSource(7)))

	if ds.Count() != 52 {
		t.Fatalf("shuffle changed deck size: %d", ds.Count())
	}
	after := make(map[Card]int)
	for _, c := range ds {
		after[c]++
	}
	for c, n := range before {
		if after[c] != n {
			t.Fatalf("card %v count changed: %d -> %d", c, n, after[c])
		}
	}
}

func TestRiffleInterleavesDeterministically(t *testing.T) {
	ds := CardList{CardSpadeA, CardSpade2, CardSpade3, CardHeartA, CardHeart2, CardHeart3}
	ds.Riffle()
	want := CardList{CardSpadeA, CardHeartA, CardSpade2, CardHeart2, CardSpade3, CardHeart3}
	for i := range want {
		if ds[i] != want[i] {
			t.Fatalf("riffle[%d] = %v, want %v", i, ds[i], want[i])
		}
	}
}

func TestRiffleOddDeckKeepsTail(t *testing.T) {
	ds := CardList{CardSpadeA, CardSpade2, CardSpade3, CardSpade4, CardSpade5}
	ds.Riffle()
	if ds.Count() != 5 {
		t.Fatalf("riffle changed odd deck size: %d", ds.Count())
	}
	if ds[4] != CardSpade5 {
		t.Fatalf("odd tail card = %v, want %v", ds[4], CardSpade5)
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	var ds CardList
	if _, err := ds.Draw(); err != ErrEmptyDeck {
		t.Fatalf("draw from empty deck err = %v, want ErrEmptyDeck", err)
	}
}

func TestRemoveCardsIsAtomic(t *testing.T) {
	ds := CardList{CardSpadeA, CardHeart5, CardClubK}
	err := ds.RemoveCards([]Card{CardSpadeA, CardDiamond9})
	if err != ErrCardNotFound {
		t.Fatalf("remove err = %v, want ErrCardNotFound", err)
	}
	if ds.Count() != 3 {
		t.Fatalf("failed remove mutated hand: %v", ds)
	}

	if err := ds.RemoveCards([]Card{CardClubK, CardSpadeA}); err != nil {
		t.Fatalf("remove err: %v", err)
	}
	if ds.Count() != 1 || ds[0] != CardHeart5 {
		t.Fatalf("unexpected hand after remove: %v", ds)
	}
}

func TestFindByRankUncapped(t *testing.T) {
	ds := CardList{CardSpade5, CardHeart5, CardClub5, CardDiamond5, CardJokerA, CardHeartK}

	got := ds.FindByRank(RankFive, false)
	if len(got) != 4 {
		t.Fatalf("non-wacky find returned %d cards, want all 4", len(got))
	}

	got = ds.FindByRank(RankFive, true)
	if len(got) != 5 {
		t.Fatalf("wacky find returned %d cards, want 4 fives + joker", len(got))
	}
}

func TestRandomSubsetExcludes(t *testing.T) {
	ds := CardList{CardSpadeA, CardSpade2, CardSpade3, CardSpade4}
	rng := rand.New(rand.NewSource(3))
	got := ds.RandomSubset(rng, 3, []Card{CardSpade2, CardSpade3})
	if len(got) != 2 {
		t.Fatalf("subset size = %d, want 2 (only 2 eligible)", len(got))
	}
	for _, c := range got {
		if c == CardSpade2 || c == CardSpade3 {
			t.Fatalf("excluded card %v selected", c)
		}
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	for _, c := range WackyCards() {
		parsed, err := ParseCard(c.Wire())
		if err != nil {
			t.Fatalf("parse %q: %v", c.Wire(), err)
		}
		if parsed != c {
			t.Fatalf("round trip %q: got %v, want %v", c.Wire(), parsed, c)
		}
	}
	if _, err := ParseCard("Xs"); err == nil {
		t.Fatalf("expected error for joker with a real suit")
	}
}
