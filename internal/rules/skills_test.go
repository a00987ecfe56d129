package rules

import "testing"

func TestSkillCatalogIsTotal(t *testing.T) {
	skills := Skills()
	if len(skills) != 18 {
		t.Fatalf("catalog has %d skills, want 18", len(skills))
	}
	counted := 0
	for _, a := range Abilities() {
		counted += len(SkillsFor(a))
	}
	if counted != 18 {
		t.Errorf("skills grouped by ability = %d, want 18", counted)
	}
	for _, s := range skills {
		if a, ok := s.Ability(); !ok || !a.Valid() {
			t.Errorf("skill %q has no governing ability", s)
		}
	}
}

func TestSkillAbilityMapping(t *testing.T) {
	tests := []struct {
		skill Skill
		want  Ability
	}{
		{"Stealth", Dexterity},
		{"Athletics", Strength},
		{"Arcana", Intelligence},
		{"Perception", Wisdom},
		{"Persuasion", Charisma},
		{"Sleight of Hand", Dexterity},
	}
	for _, tt := range tests {
		got, ok := tt.skill.Ability()
		if !ok || got != tt.want {
			t.Errorf("%s.Ability() = %s, %v; want %s", tt.skill, got, ok, tt.want)
		}
	}
	if _, ok := Skill("Con Artistry").Ability(); ok {
		t.Error("unknown skill should have no ability")
	}
}

func TestCanonicalSkill(t *testing.T) {
	tests := []struct {
		input string
		want  Skill
		ok    bool
	}{
		{"Stealth", "Stealth", true},
		{"  stealth ", "Stealth", true},
		{"SLEIGHT OF HAND", "Sleight of Hand", true},
		{"Perseption", "Perception", true},
		{"Animal Handlng", "Animal Handling", true},
		{"Basket Weaving", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalSkill(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanonicalSkill(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseAbility(t *testing.T) {
	tests := []struct {
		input string
		want  Ability
		ok    bool
	}{
		{"str", Strength, true},
		{"DEX", Dexterity, true},
		{"Strength", Strength, true},
		{"constitution", Constitution, true},
		{" wis ", Wisdom, true},
		{"luck", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAbility(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAbility(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
