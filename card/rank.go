package card

import (
	"fmt"
	"strings"
)

// Rank 点数 1-14 (A=1, K=13, Joker=14)
type Rank byte

const (
	RankInvalid Rank = 0
	RankAce     Rank = 1
	RankTwo     Rank = 2
	RankThree   Rank = 3
	RankFour    Rank = 4
	RankFive    Rank = 5
	RankSix     Rank = 6
	RankSeven   Rank = 7
	RankEight   Rank = 8
	RankNine    Rank = 9
	RankTen     Rank = 10
	RankJack    Rank = 11
	RankQueen   Rank = 12
	RankKing    Rank = 13
	RankJoker   Rank = 14
)

var rankNames = map[Rank]string{
	RankAce:   "Ace",
	RankTwo:   "Two",
	RankThree: "Three",
	RankFour:  "Four",
	RankFive:  "Five",
	RankSix:   "Six",
	RankSeven: "Seven",
	RankEight: "Eight",
	RankNine:  "Nine",
	RankTen:   "Ten",
	RankJack:  "Jack",
	RankQueen: "Queen",
	RankKing:  "King",
	RankJoker: "Joker",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "Invalid"
}

// Short 返回单字符点数 (A 2..9 T J Q K X)
func (r Rank) Short() string {
	switch r {
	case RankAce:
		return "A"
	case RankTen:
		return "T"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankJoker:
		return "X"
	}
	if r >= RankTwo && r <= RankNine {
		return fmt.Sprintf("%d", r)
	}
	return "?"
}

// Natural reports whether the rank is one of the thirteen claimable ranks.
// Joker is never claimable; it only counts as a wild match.
func (r Rank) Natural() bool {
	return r >= RankAce && r <= RankKing
}

// ParseRank accepts long names ("Five"), short forms ("5", "T", "10")
// and is case-insensitive.
func ParseRank(s string) (Rank, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	switch key {
	case "A", "ACE", "1":
		return RankAce, nil
	case "2", "TWO":
		return RankTwo, nil
	case "3", "THREE":
		return RankThree, nil
	case "4", "FOUR":
		return RankFour, nil
	case "5", "FIVE":
		return RankFive, nil
	case "6", "SIX":
		return RankSix, nil
	case "7", "SEVEN":
		return RankSeven, nil
	case "8", "EIGHT":
		return RankEight, nil
	case "9", "NINE":
		return RankNine, nil
	case "T", "10", "TEN":
		return RankTen, nil
	case "J", "JACK":
		return RankJack, nil
	case "Q", "QUEEN":
		return RankQueen, nil
	case "K", "KING":
		return RankKing, nil
	case "X", "JOKER":
		return RankJoker, nil
	}
	return RankInvalid, fmt.Errorf("invalid rank: %s", s)
}
