package codec

import (
	"strings"

	"github.com/DENFSA/CharkLi/internal/rules"
)

// Proficiencies is the set of trained skills and saves plus free-form
// proficiencies such as languages, armor and tools.
type Proficiencies struct {
	Skills    []rules.Skill   `json:"skills"`
	Saves     []rules.Ability `json:"saves"`
	Other     []string        `json:"other"`
	Expertise []rules.Skill   `json:"expertise,omitempty"`
}

// NewProficiencies returns an empty set.
func NewProficiencies() Proficiencies {
	return Proficiencies{Skills: []rules.Skill{}, Saves: []rules.Ability{}, Other: []string{}}
}

// SkillTier reports how well s is trained. Expertise implies proficiency.
func (p Proficiencies) SkillTier(s rules.Skill) rules.Tier {
	for _, e := range p.Expertise {
		if e == s {
			return rules.TierExpertise
		}
	}
	for _, k := range p.Skills {
		if k == s {
			return rules.TierProficient
		}
	}
	return rules.TierNone
}

// HasSave reports whether the character is proficient in a's saving throw.
func (p Proficiencies) HasSave(a rules.Ability) bool {
	for _, s := range p.Saves {
		if s == a {
			return true
		}
	}
	return false
}

// SkillTiers returns the tier of every trained skill.
func (p Proficiencies) SkillTiers() map[rules.Skill]rules.Tier {
	tiers := make(map[rules.Skill]rules.Tier, len(p.Skills)+len(p.Expertise))
	for _, s := range p.Skills {
		tiers[s] = rules.TierProficient
	}
	for _, s := range p.Expertise {
		tiers[s] = rules.TierExpertise
	}
	return tiers
}

// SaveSet returns the proficient saves as a set.
func (p Proficiencies) SaveSet() map[rules.Ability]bool {
	set := make(map[rules.Ability]bool, len(p.Saves))
	for _, a := range p.Saves {
		set[a] = true
	}
	return set
}

// SetSkill adds or removes s from the trained skills. Removing a skill also
// removes its expertise. The result stays in catalog order.
func (p *Proficiencies) SetSkill(s rules.Skill, on bool) {
	p.Skills = toggleSkill(p.Skills, s, on)
	if !on {
		p.Expertise = toggleSkill(p.Expertise, s, false)
	}
}

// SetExpertise adds or removes expertise in s. Expertise implies proficiency.
func (p *Proficiencies) SetExpertise(s rules.Skill, on bool) {
	p.Expertise = toggleSkill(p.Expertise, s, on)
	if on {
		p.Skills = toggleSkill(p.Skills, s, true)
	}
}

// SetSave adds or removes a from the proficient saves, keeping sheet order.
func (p *Proficiencies) SetSave(a rules.Ability, on bool) {
	set := p.SaveSet()
	set[a] = on
	saves := make([]rules.Ability, 0, len(set))
	for _, k := range rules.Abilities() {
		if set[k] {
			saves = append(saves, k)
		}
	}
	p.Saves = saves
}

func toggleSkill(list []rules.Skill, s rules.Skill, on bool) []rules.Skill {
	set := make(map[rules.Skill]bool, len(list)+1)
	for _, k := range list {
		set[k] = true
	}
	set[s] = on
	out := make([]rules.Skill, 0, len(set))
	for _, k := range rules.Skills() {
		if set[k] {
			out = append(out, k)
		}
	}
	return out
}

// ParseSkillList reads a comma-separated list of skill names. Names are
// matched against the catalog; unknown names and duplicates are dropped.
func ParseSkillList(text string) []rules.Skill {
	seen := make(map[rules.Skill]bool)
	skills := []rules.Skill{}
	for _, part := range strings.Split(text, ",") {
		s, ok := rules.CanonicalSkill(part)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		skills = append(skills, s)
	}
	return skills
}

// RenderSkillList joins skills with ", ".
func RenderSkillList(skills []rules.Skill) string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// ParseSaveList reads a comma-separated list of abilities, by key or name.
func ParseSaveList(text string) []rules.Ability {
	seen := make(map[rules.Ability]bool)
	saves := []rules.Ability{}
	for _, part := range strings.Split(text, ",") {
		a, ok := rules.ParseAbility(part)
		if !ok || seen[a] {
			continue
		}
		seen[a] = true
		saves = append(saves, a)
	}
	return saves
}

// RenderSaveList joins ability keys with ", ".
func RenderSaveList(saves []rules.Ability) string {
	keys := make([]string, len(saves))
	for i, a := range saves {
		keys[i] = string(a)
	}
	return strings.Join(keys, ", ")
}

// ParseOther keeps one proficiency per non-blank line.
func ParseOther(text string) []string {
	other := splitLines(text)
	if other == nil {
		return []string{}
	}
	return other
}

// RenderOther writes one proficiency per line.
func RenderOther(other []string) string {
	return renderLines(other)
}
