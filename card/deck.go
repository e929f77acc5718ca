package card

// StandardCards returns the 52-card deck in stable suit-major order.
func StandardCards() []Card {
	out := make([]Card, 0, 52)
	for suit := Spade; suit <= Diamond; suit++ {
		for r := RankAce; r <= RankKing; r++ {
			out = append(out, Card(byte(suit)<<4|byte(r)))
		}
	}
	return out
}

// WackyCards returns the 54-card deck: 52 standard cards plus both Jokers.
func WackyCards() []Card {
	out := StandardCards()
	return append(out, CardJokerA, CardJokerB)
}

// DeckFor picks the deck for the rule variant.
func DeckFor(wacky bool) []Card {
	if wacky {
		return WackyCards()
	}
	return StandardCards()
}
