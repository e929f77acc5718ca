// Package codec defines the JSON wire envelopes exchanged over the
// WebSocket gateway, and the per-viewer projections of engine state.
// Hands are private: a snapshot built for one viewer carries card
// strings only for that viewer's seat, everyone else is a count.
package codec

import (
	"encoding/json"
	"time"

	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
)

// Client message types
const (
	ClientTypeJoin  = "join"
	ClientTypePlay  = "play"
	ClientTypeDoubt = "doubt"
	ClientTypeLeave = "leave"
)

// Server message types
const (
	ServerTypeError         = "error"
	ServerTypeTableSnapshot = "tableSnapshot"
	ServerTypeSeatUpdate    = "seatUpdate"
	ServerTypeRoundStart    = "roundStart"
	ServerTypeTurnPrompt    = "turnPrompt"
	ServerTypePlayResult    = "playResult"
	ServerTypeDoubtResult   = "doubtResult"
	ServerTypeRoundEnd      = "roundEnd"
	ServerTypeBanter        = "banter"
)

// ClientEnvelope 客户端上行消息
type ClientEnvelope struct {
	Type    string        `json:"type"`
	TableID string        `json:"table_id,omitempty"`
	Join    *JoinRequest  `json:"join,omitempty"`
	Play    *PlayRequest  `json:"play,omitempty"`
	Doubt   *DoubtRequest `json:"doubt,omitempty"`
}

type JoinRequest struct {
	Nickname string `json:"nickname,omitempty"`
}

// PlayRequest plays cards face down under a claimed rank. Cards use the
// compact string form ("As", "Td", "Xa").
type PlayRequest struct {
	Cards []string `json:"cards"`
	Claim string   `json:"claim"`
}

type DoubtRequest struct{}

// ServerEnvelope 服务端下行消息
type ServerEnvelope struct {
	Type       string `json:"type"`
	TableID    string `json:"table_id,omitempty"`
	ServerSeq  uint64 `json:"server_seq"`
	ServerTsMs int64  `json:"server_ts_ms"`

	Error         *ErrorResponse `json:"error,omitempty"`
	TableSnapshot *TableSnapshot `json:"table_snapshot,omitempty"`
	SeatUpdate    *SeatUpdate    `json:"seat_update,omitempty"`
	RoundStart    *RoundStart    `json:"round_start,omitempty"`
	TurnPrompt    *TurnPrompt    `json:"turn_prompt,omitempty"`
	PlayResult    *PlayResult    `json:"play_result,omitempty"`
	DoubtResult   *DoubtResult   `json:"doubt_result,omitempty"`
	RoundEnd      *RoundEnd      `json:"round_end,omitempty"`
	Banter        *Banter        `json:"banter,omitempty"`
}

type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

type TableSnapshot struct {
	Wacky       bool         `json:"wacky"`
	ClaimCap    int          `json:"claim_cap"`
	Phase       string       `json:"phase"`
	CurrentSeat int          `json:"current_seat"`
	Winner      int          `json:"winner"`
	Claim       *ClaimView   `json:"claim,omitempty"`
	Players     []PlayerView `json:"players"`
}

type ClaimView struct {
	Rank      string `json:"rank"`
	Claimant  int    `json:"claimant"`
	PileSize  int    `json:"pile_size"`
	LastCount int    `json:"last_count"`
}

type PlayerView struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name"`
	Human    bool   `json:"human"`
	Level    string `json:"level"`
	HandSize int    `json:"hand_size"`
	// Hand is present only in snapshots built for this seat's viewer.
	Hand []string `json:"hand,omitempty"`
}

type SeatUpdate struct {
	Seat     int    `json:"seat"`
	UserID   uint64 `json:"user_id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Left     bool   `json:"left,omitempty"`
}

type RoundStart struct {
	Round    uint32 `json:"round"`
	Wacky    bool   `json:"wacky"`
	ClaimCap int    `json:"claim_cap"`
	Starter  int    `json:"starter"`
}

type TurnPrompt struct {
	Seat       int    `json:"seat"`
	ClaimRank  string `json:"claim_rank,omitempty"`
	ClaimCap   int    `json:"claim_cap"`
	PileSize   int    `json:"pile_size"`
	CanDoubt   bool   `json:"can_doubt"`
	DeadlineMs int64  `json:"deadline_ms,omitempty"`
}

type PlayResult struct {
	Seat     int    `json:"seat"`
	Claim    string `json:"claim"`
	NumCards int    `json:"num_cards"`
	HandSize int    `json:"hand_size"`
	PileSize int    `json:"pile_size"`
	Emptied  bool   `json:"emptied,omitempty"`
	NextSeat int    `json:"next_seat"`
}

// DoubtResult reveals the pile: a challenge turns every face-down card
// face up for the whole table.
type DoubtResult struct {
	Caller    int      `json:"caller"`
	Claimant  int      `json:"claimant"`
	Rank      string   `json:"rank"`
	Succeeded bool     `json:"succeeded"`
	Receiver  int      `json:"receiver"`
	Revealed  []string `json:"revealed"`
	NextSeat  int      `json:"next_seat"`
}

type RoundEnd struct {
	Round       uint32 `json:"round"`
	Winner      int    `json:"winner"`
	WinnerName  string `json:"winner_name,omitempty"`
	FinishOrder []int  `json:"finish_order,omitempty"`
	HandSizes   []int  `json:"hand_sizes"`
}

type Banter struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// WrapServerEnvelope stamps the common envelope fields.
func WrapServerEnvelope(tableID string, serverSeq uint64, typ string) *ServerEnvelope {
	return &ServerEnvelope{
		Type:       typ,
		TableID:    tableID,
		ServerSeq:  serverSeq,
		ServerTsMs: time.Now().UnixMilli(),
	}
}

func Encode(env *ServerEnvelope) ([]byte, error) {
	return json.Marshal(env)
}

func DecodeClient(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// SnapshotForViewer projects engine state for one viewer. viewerSeat may
// be doubt.InvalidSeat for a spectator; then no hand is exposed.
func SnapshotForViewer(snap doubt.Snapshot, viewerSeat int, names map[int]string) *TableSnapshot {
	ts := &TableSnapshot{
		Wacky:       snap.Wacky,
		ClaimCap:    snap.ClaimCap,
		Phase:       doubt.PhaseTypeDictionary[snap.Phase],
		CurrentSeat: snap.CurrentSeat,
		Winner:      snap.Winner,
	}
	if snap.Claim.Total > 0 {
		lastCount := 0
		if n := len(snap.Claim.Entries); n > 0 {
			lastCount = snap.Claim.Entries[n-1].Count
		}
		ts.Claim = &ClaimView{
			Rank:      snap.Claim.Rank.String(),
			Claimant:  snap.Claim.Claimant,
			PileSize:  snap.Claim.Total,
			LastCount: lastCount,
		}
	}
	for _, ps := range snap.Players {
		pv := PlayerView{
			Seat:     ps.Seat,
			Name:     ps.Name,
			Human:    ps.Human,
			Level:    ps.Level.String(),
			HandSize: ps.HandSize,
		}
		if name, ok := names[ps.Seat]; ok && name != "" {
			pv.Name = name
		}
		if ps.Seat == viewerSeat {
			pv.Hand = CardsToWire(ps.Hand)
		}
		ts.Players = append(ts.Players, pv)
	}
	return ts
}

func CardsToWire(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Wire()
	}
	return out
}

// ParseCards converts wire strings back into cards, rejecting duplicates.
func ParseCards(raw []string) ([]card.Card, error) {
	out := make([]card.Card, 0, len(raw))
	seen := make(map[card.Card]struct{}, len(raw))
	for _, s := range raw {
		c, err := card.ParseCard(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			return nil, card.ErrCardNotFound
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
