// Package prefs stores per-account game preferences: deck variant, NPC
// difficulty, table cosmetics. The gateway reads them when quick-starting
// a table so a player's saved setup follows them across devices.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"idoubtit-lite/doubt"
)

const (
	minOpponents = 1
	maxOpponents = 7
)

var ErrInvalidPrefs = errors.New("invalid preferences")

type Prefs struct {
	Sound      bool   `json:"sound"`
	Wacky      bool   `json:"wacky"`
	Difficulty string `json:"difficulty"`
	Background string `json:"background"`
	CardCover  string `json:"card_cover"`
	Opponents  int    `json:"opponents"`
}

func DefaultPrefs() Prefs {
	return Prefs{
		Sound:      true,
		Wacky:      false,
		Difficulty: "medium",
		Background: "green",
		CardCover:  "blue",
		Opponents:  3,
	}
}

func Validate(p Prefs) error {
	if _, err := doubt.ParseDifficulty(p.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrefs, err)
	}
	if p.Opponents < minOpponents || p.Opponents > maxOpponents {
		return fmt.Errorf("%w: opponents must be %d-%d, got %d",
			ErrInvalidPrefs, minOpponents, maxOpponents, p.Opponents)
	}
	return nil
}

// Service is the preference store contract. Get never fails on a missing
// row; it returns the defaults.
type Service interface {
	Get(ctx context.Context, accountID uint64) (*Prefs, error)
	Put(ctx context.Context, accountID uint64, p Prefs) error
	Close() error
}

// MemoryStore keeps preferences per process, for tests and AUTH_MODE=memory
// deployments where nothing else persists either.
type MemoryStore struct {
	mu   sync.Mutex
	byID map[uint64]Prefs
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[uint64]Prefs)}
}

func (s *MemoryStore) Get(ctx context.Context, accountID uint64) (*Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[accountID]; ok {
		out := p
		return &out, nil
	}
	out := DefaultPrefs()
	return &out, nil
}

func (s *MemoryStore) Put(ctx context.Context, accountID uint64, p Prefs) error {
	if err := Validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[accountID] = p
	return nil
}

func (s *MemoryStore) Close() error { return nil }
