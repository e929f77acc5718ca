package doubt

import "idoubtit-lite/card"

type Player struct {
	Name  string
	Human bool
	Level Difficulty

	policy Policy
	hand   card.CardList
}

func (p *Player) IsHuman() bool { return p.Human }

func (p *Player) HandCards() card.CardList { return p.hand }

func (p *Player) HasCards() bool { return p.hand.Count() != 0 }

func (p *Player) AddCards(cards ...card.Card) {
	p.hand.Add(cards...)
}

func (p *Player) RemoveCards(cards []card.Card) error {
	return p.hand.RemoveCards(cards)
}

type seatNode struct {
	Seat   int
	Player *Player
	Next   *seatNode
}

// walkOnce 遍历环一圈（可从任意 start 开始），fn 返回 true 表示找到/停止。
func (n *seatNode) walkOnce(fn func(*seatNode) bool) *seatNode {
	if n == nil {
		return nil
	}
	cur := n
	for {
		if fn(cur) {
			return cur
		}
		cur = cur.Next
		if cur == nil || cur == n {
			break
		}
	}
	return nil
}
