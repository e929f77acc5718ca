package npc

import "idoubtit-lite/doubt"

// Profile holds the tunable decision knobs for a RulePolicy, all in percent.
// These are configuration, not rules: callers may override any of them.
type Profile struct {
	// BluffChance is the chance a short play gets padded with non-matching
	// cards instead of going down honest.
	BluffChance int `json:"bluffChance"`
	// BluffExtraChance is rolled per additional bluff card beyond the first.
	BluffExtraChance int `json:"bluffExtraChance"`

	// DoubtBase is the baseline chance to challenge a play.
	DoubtBase int `json:"doubtBase"`
	// DoubtEndgameBonus applies when the claimant just went empty.
	DoubtEndgameBonus int `json:"doubtEndgameBonus"`
	// DoubtFinalClaimBonus applies when claimed plus remaining cards would
	// account for every card of the rank a full hand could hold.
	DoubtFinalClaimBonus int `json:"doubtFinalClaimBonus"`
	// DoubtImpossibleChance is used when the NPC's own hand proves the claim
	// impossible. Kept below 100 so the AI does not look omniscient.
	DoubtImpossibleChance int `json:"doubtImpossibleChance"`
}

// DefaultProfiles returns the stock difficulty tiers. Easy bluffs often and
// doubts timidly; Hard bluffs rarely and doubts hard.
func DefaultProfiles() map[doubt.Difficulty]Profile {
	return map[doubt.Difficulty]Profile{
		doubt.DifficultyEasy: {
			BluffChance:           80,
			BluffExtraChance:      40,
			DoubtBase:             40,
			DoubtEndgameBonus:     15,
			DoubtFinalClaimBonus:  15,
			DoubtImpossibleChance: 90,
		},
		doubt.DifficultyMedium: {
			BluffChance:           60,
			BluffExtraChance:      30,
			DoubtBase:             60,
			DoubtEndgameBonus:     15,
			DoubtFinalClaimBonus:  15,
			DoubtImpossibleChance: 90,
		},
		doubt.DifficultyHard: {
			BluffChance:           30,
			BluffExtraChance:      20,
			DoubtBase:             80,
			DoubtEndgameBonus:     8,
			DoubtFinalClaimBonus:  8,
			DoubtImpossibleChance: 95,
		},
	}
}

// ProfileFor resolves a difficulty against the defaults.
func ProfileFor(level doubt.Difficulty) Profile {
	return DefaultProfiles()[level]
}
