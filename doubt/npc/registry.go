package npc

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"idoubtit-lite/doubt"
)

// PersonaRegistry holds NPC persona definitions, seeded with the builtins.
type PersonaRegistry struct {
	mu       sync.RWMutex
	personas map[string]*Persona
	order    []string
}

// NewRegistry creates a registry preloaded with the builtin personas.
func NewRegistry() *PersonaRegistry {
	r := &PersonaRegistry{personas: make(map[string]*Persona)}
	for _, p := range builtinPersonas() {
		r.put(p)
	}
	return r
}

func (r *PersonaRegistry) put(p *Persona) {
	if _, seen := r.personas[p.ID]; !seen {
		r.order = append(r.order, p.ID)
	}
	r.personas[p.ID] = p
}

// LoadFromFile merges personas from a JSON file over the builtins.
func (r *PersonaRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	return r.LoadFromJSON(data)
}

// LoadFromJSON merges personas from raw JSON bytes.
func (r *PersonaRegistry) LoadFromJSON(data []byte) error {
	var list []*Persona
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas JSON: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		if p.ID == "" {
			continue
		}
		if p.Brain == (Profile{}) {
			p.Brain = ProfileFor(p.Level)
		}
		r.put(p)
	}
	return nil
}

// Get returns a persona by ID.
func (r *PersonaRegistry) Get(id string) *Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[id]
}

// ByLevel returns all personas of the given difficulty, in load order.
func (r *PersonaRegistry) ByLevel(level doubt.Difficulty) []*Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Persona
	for _, id := range r.order {
		if p := r.personas[id]; p.Level == level {
			out = append(out, p)
		}
	}
	return out
}

// PickTable draws n distinct personas of the given difficulty; when the
// tier runs out it falls back to the whole pool. Deterministic for a seed.
func (r *PersonaRegistry) PickTable(level doubt.Difficulty, n int, seed int64) []*Persona {
	rng := rand.New(rand.NewSource(seed))
	pool := r.ByLevel(level)
	if len(pool) < n {
		r.mu.RLock()
		pool = pool[:len(pool):len(pool)]
		for _, id := range r.order {
			p := r.personas[id]
			if p.Level != level {
				pool = append(pool, p)
			}
		}
		r.mu.RUnlock()
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// Count returns the total number of registered personas.
func (r *PersonaRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}

func builtinPersonas() []*Persona {
	defaults := DefaultProfiles()
	return []*Persona{
		{
			ID: "honest_hank", Name: "Honest Hank",
			Tagline:   "Wouldn't know a bluff if it bit him.",
			AvatarKey: "avatar_hank",
			Level:     doubt.DifficultyEasy, Brain: defaults[doubt.DifficultyEasy],
		},
		{
			ID: "giggly_gwen", Name: "Giggly Gwen",
			Tagline:   "Laughs before every lie.",
			AvatarKey: "avatar_gwen",
			Level:     doubt.DifficultyEasy, Brain: defaults[doubt.DifficultyEasy],
		},
		{
			ID: "pokerface_pearl", Name: "Poker-Face Pearl",
			Tagline:   "Reads you like a cheap paperback.",
			AvatarKey: "avatar_pearl",
			Level:     doubt.DifficultyMedium, Brain: defaults[doubt.DifficultyMedium],
		},
		{
			ID: "wild_willy", Name: "Wild Willy",
			Tagline:   "Plays every card like it's a joker.",
			AvatarKey: "avatar_willy",
			Level:     doubt.DifficultyMedium, Brain: defaults[doubt.DifficultyMedium],
		},
		{
			ID: "sly_sadie", Name: "Sly Sadie",
			Tagline:   "Counts cards, grudges, and exits.",
			AvatarKey: "avatar_sadie",
			Level:     doubt.DifficultyHard, Brain: defaults[doubt.DifficultyHard],
		},
		{
			ID: "iron_ivan", Name: "Iron Ivan",
			Tagline:   "Has never believed anyone, ever.",
			AvatarKey: "avatar_ivan",
			Level:     doubt.DifficultyHard, Brain: defaults[doubt.DifficultyHard],
		},
	}
}
