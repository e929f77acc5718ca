package card

type Suit byte

const (
	Spade   Suit = iota // ♠️
	Heart               // ♥️
	Club                // ♣️
	Diamond             // ♦️
	NoSuit              // 仅 Joker 使用
)

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠️"
	case Heart:
		return "♥️"
	case Club:
		return "♣️"
	case Diamond:
		return "♦️"
	case NoSuit:
		return ""
	}
	return "?"
}

// Name returns the long suit name used in config files and wire payloads.
func (s Suit) Name() string {
	switch s {
	case Spade:
		return "Spades"
	case Heart:
		return "Hearts"
	case Club:
		return "Clubs"
	case Diamond:
		return "Diamonds"
	case NoSuit:
		return "NoSuit"
	}
	return "Unknown"
}
