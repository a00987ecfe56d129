// Package rules implements the D&D 5e arithmetic behind every derived value on a
// character sheet: ability modifiers, proficiency bonus, saving throws, skills,
// initiative, passive perception and weapon attack bonuses.
//
// Everything in this package is pure. The live editing session and the
// request handlers both call into it, so a value shown while typing is always
// the value rendered after saving.
package rules

import "strings"

// Ability is one of the six ability score keys.
type Ability string

const (
	Strength     Ability = "str"
	Dexterity    Ability = "dex"
	Constitution Ability = "con"
	Intelligence Ability = "int"
	Wisdom       Ability = "wis"
	Charisma     Ability = "cha"
)

// DefaultScore is the value an unset or invalid ability score falls back to.
const DefaultScore = 10

var abilities = [...]Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var abilityNames = map[Ability]string{
	Strength:     "Strength",
	Dexterity:    "Dexterity",
	Constitution: "Constitution",
	Intelligence: "Intelligence",
	Wisdom:       "Wisdom",
	Charisma:     "Charisma",
}

// Abilities returns the six abilities in sheet order.
func Abilities() []Ability {
	out := make([]Ability, len(abilities))
	copy(out, abilities[:])
	return out
}

// Valid reports whether a is one of the six known keys.
func (a Ability) Valid() bool {
	_, ok := abilityNames[a]
	return ok
}

// Name returns the full English name ("Strength").
func (a Ability) Name() string {
	return abilityNames[a]
}

// Label returns the upper-case short label shown on the sheet ("STR").
func (a Ability) Label() string {
	return strings.ToUpper(string(a))
}

// ParseAbility accepts either the short key or the full name, case-insensitive.
// Older records store saves as "Strength" rather than "str".
func ParseAbility(s string) (Ability, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if a := Ability(s); a.Valid() {
		return a, true
	}
	for a, name := range abilityNames {
		if strings.ToLower(name) == s {
			return a, true
		}
	}
	return "", false
}

// Scores holds the six raw ability scores.
type Scores struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// DefaultScores returns scores with every ability at 10.
func DefaultScores() Scores {
	return Scores{
		Str: DefaultScore,
		Dex: DefaultScore,
		Con: DefaultScore,
		Int: DefaultScore,
		Wis: DefaultScore,
		Cha: DefaultScore,
	}
}

// Get returns the score for a. Unknown keys read as DefaultScore.
func (s Scores) Get(a Ability) int {
	switch a {
	case Strength:
		return s.Str
	case Dexterity:
		return s.Dex
	case Constitution:
		return s.Con
	case Intelligence:
		return s.Int
	case Wisdom:
		return s.Wis
	case Charisma:
		return s.Cha
	}
	return DefaultScore
}

// Set stores v under a. Unknown keys are ignored.
func (s *Scores) Set(a Ability, v int) {
	switch a {
	case Strength:
		s.Str = v
	case Dexterity:
		s.Dex = v
	case Constitution:
		s.Con = v
	case Intelligence:
		s.Int = v
	case Wisdom:
		s.Wis = v
	case Charisma:
		s.Cha = v
	}
}

// Mod returns the modifier for a.
func (s Scores) Mod(a Ability) int {
	return Modifier(s.Get(a))
}

// FinesseAbility picks the ability a weapon attacks with when none is stored:
// the higher of STR and DEX, STR on a tie.
func (s Scores) FinesseAbility() Ability {
	if s.Str >= s.Dex {
		return Strength
	}
	return Dexterity
}
