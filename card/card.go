package card

import (
	"fmt"
	"strings"
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond, 4:NoSuit)
// - 低4位: 点数 (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
// - Joker 固定配 NoSuit，两张分别是 0x4E/0x4F
type Card byte

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	if c == CardRear {
		return "Rear"
	}
	if c.IsJoker() {
		return "🃏"
	}
	return fmt.Sprintf("%s%s", c.Suit(), c.Rank().Short())
}

// Rank 获取点数；两张 Joker 都返回 RankJoker。
func (c Card) Rank() Rank {
	if c == CardInvalid || c == CardRear {
		return RankInvalid
	}
	if c.IsJoker() {
		return RankJoker
	}
	return Rank(c & 0x0F)
}

// Suit 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond, 4:NoSuit)
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsJoker() bool {
	return c == CardJokerA || c == CardJokerB
}

// Matches reports whether the card counts toward a claimed rank.
// With jokersWild (wacky rules) a Joker matches every natural rank.
func (c Card) Matches(rank Rank, jokersWild bool) bool {
	if jokersWild && c.IsJoker() {
		return true
	}
	return c.Rank() == rank
}

// ParseCard 将字符串 (如 "As", "Td", "10h", "Xa") 转换为 Card 常量
func ParseCard(cardStr string) (Card, error) {
	s := strings.TrimSpace(cardStr)
	if len(s) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %s", cardStr)
	}

	// 1. 解析花色 (取最后一个字符)
	suitChar := s[len(s)-1]
	var suitBase Card

	switch suitChar {
	case 's', 'S':
		suitBase = 0x00 // 黑桃
	case 'h', 'H':
		suitBase = 0x10 // 红心
	case 'c', 'C':
		suitBase = 0x20 // 梅花
	case 'd', 'D':
		suitBase = 0x30 // 方块
	case 'a', 'A':
		if strings.EqualFold(s[:len(s)-1], "X") {
			return CardJokerA, nil
		}
		return CardInvalid, fmt.Errorf("invalid suit: %c", suitChar)
	case 'b', 'B':
		if strings.EqualFold(s[:len(s)-1], "X") {
			return CardJokerB, nil
		}
		return CardInvalid, fmt.Errorf("invalid suit: %c", suitChar)
	default:
		return CardInvalid, fmt.Errorf("invalid suit: %c", suitChar)
	}

	// 2. 解析点数
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return CardInvalid, err
	}
	if !rank.Natural() {
		return CardInvalid, fmt.Errorf("rank %s needs a real suit", rank)
	}
	return suitBase + Card(rank), nil
}

// Wire 返回紧凑字符串编码 ("5h", "Td", "Xa")，与 ParseCard 互逆。
func (c Card) Wire() string {
	switch c {
	case CardJokerA:
		return "Xa"
	case CardJokerB:
		return "Xb"
	}
	var suit string
	switch c.Suit() {
	case Spade:
		suit = "s"
	case Heart:
		suit = "h"
	case Club:
		suit = "c"
	case Diamond:
		suit = "d"
	default:
		return "??"
	}
	return c.Rank().Short() + suit
}

func Cards2bytes(cs []Card) []byte {
	out := make([]byte, 0, len(cs))
	for _, c := range cs {
		out = append(out, byte(c))
	}
	return out
}
