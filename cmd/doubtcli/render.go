package main

import (
	"fmt"
	"sort"
	"strings"

	colorize "github.com/fatih/color"

	"idoubtit-lite/card"
)

// renderCard colors a card by suit: red suits in red, black suits in
// white, jokers in magenta.
func renderCard(c card.Card) string {
	label := c.Suit().String() + c.Rank().Short()
	if c.IsJoker() {
		return colorize.HiMagentaString("J🃏")
	}
	switch c.Suit() {
	case card.Heart, card.Diamond:
		return colorize.HiRedString(label)
	default:
		return colorize.HiWhiteString(label)
	}
}

// renderHand prints a hand sorted by rank then suit, with 1-based pick
// numbers the player uses to choose cards.
func renderHand(cards []card.Card) string {
	sorted := append([]card.Card{}, cards...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rank() != sorted[j].Rank() {
			return sorted[i].Rank() < sorted[j].Rank()
		}
		return sorted[i] < sorted[j]
	})
	var b strings.Builder
	for i, c := range sorted {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(fmt.Sprintf("%s[%d]", renderCard(c), i+1))
	}
	return b.String()
}

// sortedHand returns the same ordering renderHand displays, so pick
// numbers resolve to the right cards.
func sortedHand(cards []card.Card) []card.Card {
	sorted := append([]card.Card{}, cards...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rank() != sorted[j].Rank() {
			return sorted[i].Rank() < sorted[j].Rank()
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func renderPile(claim string, size int) string {
	if size == 0 {
		return colorize.HiBlackString("pile empty — claim any rank")
	}
	return fmt.Sprintf("pile %s, window rank %s",
		colorize.YellowString("%d", size), colorize.HiYellowString(claim))
}
