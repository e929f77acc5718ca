package replay

import "encoding/json"

// RoundSpec is the portable description of one scripted round: who sits
// where, optionally the exact deck, and the action script to replay.
type RoundSpec struct {
	Wacky   bool         `json:"wacky,omitempty"`
	Seats   []SeatSpec   `json:"seats"`
	Deck    []string     `json:"deck,omitempty"`
	Actions []ActionSpec `json:"actions"`
	RNG     *RNGSpec     `json:"rng,omitempty"`
}

// SeatSpec describes one seat in spec order; seat numbers are implicit
// (first entry is seat 0). Non-hero seats default to scripted NPCs.
type SeatSpec struct {
	Name   string `json:"name,omitempty"`
	IsHero bool   `json:"is_hero,omitempty"`
	Human  bool   `json:"human,omitempty"`
	Level  string `json:"level,omitempty"`
}

// ActionSpec is one scripted step. Type is one of:
//
//	play:  Seat plays Cards face down claiming Claim
//	doubt: Seat challenges the pending claim
//	npc:   let the current NPC policy decide its own step
type ActionSpec struct {
	Type  string   `json:"type"`
	Seat  int      `json:"seat"`
	Cards []string `json:"cards,omitempty"`
	Claim string   `json:"claim,omitempty"`
}

type RNGSpec struct {
	Seed int64 `json:"seed"`
}

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	TableID     string        `json:"table_id"`
	HeroSeat    int           `json:"hero_seat"`
	Events      []ReplayEvent `json:"events"`
}

type ReplayEvent struct {
	Type        string          `json:"type"`
	Seq         uint64          `json:"seq"`
	Value       json.RawMessage `json:"value,omitempty"`
	EnvelopeB64 string          `json:"envelope_b64,omitempty"`
}

// --- event payloads ---

type RoundStartEvent struct {
	Wacky    bool        `json:"wacky"`
	ClaimCap int         `json:"claim_cap"`
	Seats    []SeatState `json:"seats"`
	HeroSeat int         `json:"hero_seat"`
	HeroHand []string    `json:"hero_hand,omitempty"`
}

type SeatState struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	HandSize int    `json:"hand_size"`
}

type TurnPromptEvent struct {
	Seat      int    `json:"seat"`
	ClaimRank string `json:"claim_rank,omitempty"`
	ClaimCap  int    `json:"claim_cap"`
	PileSize  int    `json:"pile_size"`
}

type PlayEvent struct {
	Seat     int    `json:"seat"`
	Claim    string `json:"claim"`
	NumCards int    `json:"num_cards"`
	HandSize int    `json:"hand_size"`
	PileSize int    `json:"pile_size"`
	Emptied  bool   `json:"emptied,omitempty"`
}

type DoubtEvent struct {
	Caller     int    `json:"caller"`
	Claimant   int    `json:"claimant"`
	Rank       string `json:"rank"`
	Succeeded  bool   `json:"succeeded"`
	Receiver   int    `json:"receiver"`
	CardsMoved int    `json:"cards_moved"`
}

type RoundEndEvent struct {
	Winner      int   `json:"winner"`
	FinishOrder []int `json:"finish_order,omitempty"`
	HandSizes   []int `json:"hand_sizes"`
}
