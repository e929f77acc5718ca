package card

import (
	"errors"
	"math/rand"
)

var (
	ErrEmptyDeck    = errors.New("deck is empty")
	ErrCardNotFound = errors.New("card not in hand")
)

type CardList []Card

func (ds *CardList) Init(cards []Card) {
	*ds = make([]Card, len(cards))
	copy(*ds, cards)
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

func (ds CardList) CardsBytes() []byte {
	return Cards2bytes(ds)
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

func (ds *CardList) PopCard() Card {
	totalCount := ds.Count()
	if totalCount == 0 {
		return CardInvalid
	}
	card := (*ds)[totalCount-1]
	*ds = (*ds)[:totalCount-1]
	return card
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}

// Draw removes and returns the first card.
func (ds *CardList) Draw() (Card, error) {
	if ds.Count() == 0 {
		return CardInvalid, ErrEmptyDeck
	}
	card := (*ds)[0]
	*ds = (*ds)[1:]
	return card, nil
}

func (ds CardList) Contains(c Card) bool {
	for _, cc := range ds {
		if cc == c {
			return true
		}
	}
	return false
}

// RemoveCards 整批移除；任意一张不在手里则整批失败，不做部分移除。
func (ds *CardList) RemoveCards(cards []Card) error {
	kept := make([]Card, len(*ds))
	copy(kept, *ds)
	for _, c := range cards {
		found := -1
		for i, cc := range kept {
			if cc == c {
				found = i
				break
			}
		}
		if found < 0 {
			return ErrCardNotFound
		}
		kept = append(kept[:found], kept[found+1:]...)
	}
	*ds = kept
	return nil
}

// FindByRank returns every card matching the rank. No cap: the per-claim
// limit applies when selecting cards to play, not when searching.
func (ds CardList) FindByRank(rank Rank, jokersWild bool) []Card {
	var out []Card
	for _, c := range ds {
		if c.Matches(rank, jokersWild) {
			out = append(out, c)
		}
	}
	return out
}

// MatchCount counts cards matching the rank.
func (ds CardList) MatchCount(rank Rank, jokersWild bool) int {
	n := 0
	for _, c := range ds {
		if c.Matches(rank, jokersWild) {
			n++
		}
	}
	return n
}

// RandomSubset picks up to count cards uniformly without replacement,
// skipping anything in excluding. Returns fewer only when the list
// runs out of eligible cards.
func (ds CardList) RandomSubset(rng *rand.Rand, count int, excluding []Card) []Card {
	eligible := make([]Card, 0, len(ds))
	for _, c := range ds {
		skip := false
		for _, ex := range excluding {
			if c == ex {
				skip = true
				break
			}
		}
		if !skip {
			eligible = append(eligible, c)
		}
	}
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if count > len(eligible) {
		count = len(eligible)
	}
	return eligible[:count]
}

// Shuffle 均匀洗牌 (Fisher–Yates)
func (ds CardList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(ds), func(i, j int) {
		ds[i], ds[j] = ds[j], ds[i]
	})
}

// Riffle 对半交错洗牌：前半第一张开始，两半交替。
// 奇数张时多出的一张保持在末尾。
func (ds *CardList) Riffle() {
	n := ds.Count()
	half := n / 2
	first := (*ds)[:half]
	second := (*ds)[half:]
	out := make([]Card, 0, n)
	for i := 0; i < half; i++ {
		out = append(out, first[i], second[i])
	}
	if n%2 == 1 {
		out = append(out, second[half])
	}
	*ds = out
}

// ThoroughShuffle = riffle → uniform → riffle.
func (ds *CardList) ThoroughShuffle(rng *rand.Rand) {
	ds.Riffle()
	ds.Shuffle(rng)
	ds.Riffle()
}
