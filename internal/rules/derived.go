package rules

// Tier is how well a character is trained in a skill.
type Tier int

const (
	TierNone Tier = iota
	TierProficient
	TierExpertise
)

// multiplier is how many proficiency bonuses the tier adds.
// Half proficiency (Jack of All Trades) is not modelled and counts as none.
func (t Tier) multiplier() int {
	switch t {
	case TierProficient:
		return 1
	case TierExpertise:
		return 2
	}
	return 0
}

// SaveBonus returns the saving throw bonus for one ability.
func SaveBonus(score, level int, proficient bool) int {
	mod := Modifier(score)
	if proficient {
		mod += ProficiencyBonus(level)
	}
	return mod
}

// SkillBonus returns the skill check bonus for a skill whose governing ability
// has the given score.
func SkillBonus(score, level int, tier Tier) int {
	return Modifier(score) + tier.multiplier()*ProficiencyBonus(level)
}

// Initiative is the dexterity modifier.
func Initiative(dex int) int {
	return Modifier(dex)
}

// PassivePerception is 10 plus the Perception skill bonus.
func PassivePerception(wis, level int, proficient bool) int {
	tier := TierNone
	if proficient {
		tier = TierProficient
	}
	return 10 + SkillBonus(wis, level, tier)
}

// AttackBonus returns a weapon's to-hit bonus. Same arithmetic as SaveBonus,
// but the ability and proficiency come from the weapon row.
func AttackBonus(score, level int, proficient bool) int {
	mod := Modifier(score)
	if proficient {
		mod += ProficiencyBonus(level)
	}
	return mod
}
