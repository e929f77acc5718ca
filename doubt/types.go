package doubt

import (
	"fmt"
	"strings"
)

const InvalidSeat int = -1

// Phase 游戏阶段
type Phase byte

const (
	PhaseTypeAwaitingPlay Phase = 0
	PhaseTypeRoundOver    Phase = 1
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeAwaitingPlay: "awaitingplay",
	PhaseTypeRoundOver:    "roundover",
}

// Difficulty AI 难度档位
type Difficulty byte

const (
	DifficultyEasy   Difficulty = 0
	DifficultyMedium Difficulty = 1
	DifficultyHard   Difficulty = 2
)

var DifficultyDictionary = map[Difficulty]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
}

func (d Difficulty) String() string {
	if s, ok := DifficultyDictionary[d]; ok {
		return s
	}
	return "unknown"
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "normal":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyEasy, fmt.Errorf("invalid difficulty %q", s)
}

// Per-claim card caps. 标准 4 张封顶；wacky 模式 Joker 算万能牌，6 张封顶。
const (
	StandardClaimCap = 4
	WackyClaimCap    = 6

	// FullRankCount is the number of cards of one rank a full starting hand
	// could account for; used by the final-claim doubt bonus.
	FullRankCount = 13
)
