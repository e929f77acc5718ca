package npc

import "idoubtit-lite/doubt"

// Persona defines a named NPC character: display identity plus the decision
// profile it plays with.
type Persona struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Tagline   string           `json:"tagline"`
	AvatarKey string           `json:"avatarKey"`
	Level     doubt.Difficulty `json:"level"`
	Brain     Profile          `json:"brain"`
}
