package rules

import "strconv"

// Modifier calculates the ability modifier using floor division.
// Formula: floor((score - 10) / 2)
// Examples: 8=-1, 9=-1, 10=0, 11=0, 12=+1, 14=+2, 16=+3, 18=+4
func Modifier(score int) int {
	diff := score - 10
	if diff >= 0 {
		return diff / 2
	}
	// Go truncates toward zero; shift down for odd negatives
	return (diff - 1) / 2
}

// proficiencyTiers maps a minimum level to its bonus, highest first.
var proficiencyTiers = [...]struct {
	minLevel int
	bonus    int
}{
	{17, 6},
	{13, 5},
	{9, 4},
	{5, 3},
	{1, 2},
}

// ProficiencyBonus returns the level-gated proficiency bonus.
// Levels below 1 earn nothing.
func ProficiencyBonus(level int) int {
	for _, tier := range proficiencyTiers {
		if level >= tier.minLevel {
			return tier.bonus
		}
	}
	return 0
}

// FormatSigned renders n with an explicit plus sign when non-negative.
func FormatSigned(n int) string {
	if n >= 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
