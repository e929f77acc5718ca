package prefs

import (
	"fmt"
	"os"
	"strings"
)

const (
	ModeMemory = "memory"
	ModeSQLite = "sqlite"
)

func modeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("PREFS_MODE")))
	switch raw {
	case "", ModeSQLite, "local":
		return ModeSQLite
	case ModeMemory, "mem":
		return ModeMemory
	default:
		return raw
	}
}

func NewServiceFromEnv() (Service, string, error) {
	mode := modeFromEnv()

	switch mode {
	case ModeSQLite:
		store, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	case ModeMemory:
		return NewMemoryStore(), mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid PREFS_MODE %q (supported: %s, %s)", mode, ModeMemory, ModeSQLite)
	}
}
