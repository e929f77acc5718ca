// Package lobby hands out tables. Every quick-start table seats one human
// against a picked set of NPC personas, so there is no matchmaking queue,
// only create, look up and tear down.
package lobby

import (
	"fmt"
	"log"
	"sync"
	"time"

	"idoubtit-lite/apps/server/internal/table"
	"idoubtit-lite/doubt"
	"idoubtit-lite/doubt/npc"
)

const (
	minSeats     = 2
	maxSeats     = 8
	defaultSeats = 4
)

type Lobby struct {
	mu     sync.Mutex
	tables map[string]*table.Table
	seq    uint64

	registry *npc.PersonaRegistry
	narrator table.Narrator
}

func New(registry *npc.PersonaRegistry, narrator table.Narrator) *Lobby {
	if registry == nil {
		registry = npc.NewRegistry()
	}
	return &Lobby{
		tables:   make(map[string]*table.Table),
		registry: registry,
		narrator: narrator,
	}
}

// QuickStart spins up a fresh table for one human. seats counts every
// chair including the human's; 0 picks the default.
func (l *Lobby) QuickStart(level doubt.Difficulty, wacky bool, seats int) (*table.Table, error) {
	if seats == 0 {
		seats = defaultSeats
	}
	if seats < minSeats || seats > maxSeats {
		return nil, fmt.Errorf("seats must be %d-%d, got %d", minSeats, maxSeats, seats)
	}

	l.mu.Lock()
	l.seq++
	id := fmt.Sprintf("tbl_%06d", l.seq)
	l.mu.Unlock()

	t, err := table.New(table.Options{
		ID:       id,
		Wacky:    wacky,
		Level:    level,
		Seats:    seats,
		Seed:     time.Now().UnixNano(),
		Registry: l.registry,
		Narrator: l.narrator,
		OnIdle:   l.CloseTable,
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.tables[id] = t
	l.mu.Unlock()
	log.Printf("[Lobby] table %s created, level=%s wacky=%v seats=%d", id, level, wacky, seats)
	return t, nil
}

func (l *Lobby) Get(id string) *table.Table {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tables[id]
}

func (l *Lobby) CloseTable(id string) {
	l.mu.Lock()
	t := l.tables[id]
	delete(l.tables, id)
	l.mu.Unlock()
	if t != nil {
		t.Stop()
		log.Printf("[Lobby] table %s closed", id)
	}
}

func (l *Lobby) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tables)
}

func (l *Lobby) Close() {
	l.mu.Lock()
	tables := l.tables
	l.tables = make(map[string]*table.Table)
	l.mu.Unlock()
	for _, t := range tables {
		t.Stop()
	}
}
