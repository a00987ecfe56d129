package rules

// WeaponInput is the part of a weapon row that affects its attack bonus.
// An empty Ability falls back to Scores.FinesseAbility.
type WeaponInput struct {
	Ability    Ability
	Proficient bool
}

// Input is everything the derived values depend on.
type Input struct {
	Scores     Scores
	Level      int
	Saves      map[Ability]bool
	SkillTiers map[Skill]Tier
	Weapons    []WeaponInput
}

// Attack is a computed weapon row.
type Attack struct {
	Ability Ability
	Bonus   int
}

// Derived holds every computed value shown on a sheet.
type Derived struct {
	ProficiencyBonus  int
	Modifiers         map[Ability]int
	Saves             map[Ability]int
	Skills            map[Skill]int
	Initiative        int
	PassivePerception int
	Attacks           []Attack
}

// Compute runs the full recompute pass. It is cheap enough to call after
// every edit, so nothing is cached or updated incrementally.
func Compute(in Input) Derived {
	d := Derived{
		ProficiencyBonus: ProficiencyBonus(in.Level),
		Modifiers:        make(map[Ability]int, len(abilities)),
		Saves:            make(map[Ability]int, len(abilities)),
		Skills:           make(map[Skill]int, len(skillCatalog)),
		Attacks:          make([]Attack, 0, len(in.Weapons)),
	}

	for _, a := range abilities {
		score := in.Scores.Get(a)
		d.Modifiers[a] = Modifier(score)
		d.Saves[a] = SaveBonus(score, in.Level, in.Saves[a])
	}

	for _, e := range skillCatalog {
		d.Skills[e.skill] = SkillBonus(in.Scores.Get(e.ability), in.Level, in.SkillTiers[e.skill])
	}

	d.Initiative = Initiative(in.Scores.Dex)
	d.PassivePerception = PassivePerception(in.Scores.Wis, in.Level, in.SkillTiers[Perception] != TierNone)
	if in.SkillTiers[Perception] == TierExpertise {
		// Expertise doubles the bonus for the passive score too.
		d.PassivePerception = 10 + d.Skills[Perception]
	}

	for _, w := range in.Weapons {
		ability := w.Ability
		if !ability.Valid() {
			ability = in.Scores.FinesseAbility()
		}
		d.Attacks = append(d.Attacks, Attack{
			Ability: ability,
			Bonus:   AttackBonus(in.Scores.Get(ability), in.Level, w.Proficient),
		})
	}

	return d
}
