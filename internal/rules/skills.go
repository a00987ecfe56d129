package rules

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Skill is one of the 18 catalog skills, named as printed on the sheet.
type Skill string

// skillMaxDistance is how many edits a stored skill name may be away from a
// catalog entry and still be recognized.
const skillMaxDistance = 2

var skillCatalog = [...]struct {
	skill   Skill
	ability Ability
}{
	{"Acrobatics", Dexterity},
	{"Animal Handling", Wisdom},
	{"Arcana", Intelligence},
	{"Athletics", Strength},
	{"Deception", Charisma},
	{"History", Intelligence},
	{"Insight", Wisdom},
	{"Intimidation", Charisma},
	{"Investigation", Intelligence},
	{"Medicine", Wisdom},
	{"Nature", Intelligence},
	{"Perception", Wisdom},
	{"Performance", Charisma},
	{"Persuasion", Charisma},
	{"Religion", Intelligence},
	{"Sleight of Hand", Dexterity},
	{"Stealth", Dexterity},
	{"Survival", Wisdom},
}

// Perception is looked up directly for passive perception.
const Perception Skill = "Perception"

var skillAbility = func() map[Skill]Ability {
	m := make(map[Skill]Ability, len(skillCatalog))
	for _, e := range skillCatalog {
		m[e.skill] = e.ability
	}
	return m
}()

// Skills returns the catalog in alphabetical order.
func Skills() []Skill {
	out := make([]Skill, len(skillCatalog))
	for i, e := range skillCatalog {
		out[i] = e.skill
	}
	return out
}

// SkillsFor returns the catalog skills governed by a, alphabetically.
func SkillsFor(a Ability) []Skill {
	var out []Skill
	for _, e := range skillCatalog {
		if e.ability == a {
			out = append(out, e.skill)
		}
	}
	return out
}

// Ability returns the ability that governs s. Every catalog skill has one.
func (s Skill) Ability() (Ability, bool) {
	a, ok := skillAbility[s]
	return a, ok
}

// CanonicalSkill maps free text to a catalog skill: exact match first, then
// case-insensitive, then the closest name within a small edit distance.
func CanonicalSkill(name string) (Skill, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if _, ok := skillAbility[Skill(name)]; ok {
		return Skill(name), true
	}

	lower := strings.ToLower(name)
	best, bestDist := Skill(""), skillMaxDistance+1
	for _, e := range skillCatalog {
		candidate := strings.ToLower(string(e.skill))
		if candidate == lower {
			return e.skill, true
		}
		if d := levenshtein.ComputeDistance(lower, candidate); d < bestDist {
			best, bestDist = e.skill, d
		}
	}
	if bestDist <= skillMaxDistance {
		return best, true
	}
	return "", false
}
