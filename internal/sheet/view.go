package sheet

import (
	"strconv"
	"strings"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/rules"
)

// Display keys name the elements the page marks with data-derived="...".
const (
	KeyProficiencyBonus  = "pb"
	KeyInitiative        = "initiative"
	KeyPassivePerception = "passive-perception"
)

// ModKey is the display key of an ability modifier.
func ModKey(a rules.Ability) string { return "mod-" + string(a) }

// SaveKey is the display key of a saving throw.
func SaveKey(a rules.Ability) string { return "save-" + string(a) }

// SkillKey is the display key of a skill bonus.
func SkillKey(s rules.Skill) string {
	return "skill-" + strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

// AttackKey is the display key of weapon row i's attack bonus.
func AttackKey(i int) string { return "attack-" + strconv.Itoa(i) }

// DisplayValues formats every derived value, keyed by display key.
func DisplayValues(d rules.Derived) map[string]string {
	values := make(map[string]string, 3+2*len(d.Modifiers)+len(d.Skills)+len(d.Attacks))
	values[KeyProficiencyBonus] = rules.FormatSigned(d.ProficiencyBonus)
	values[KeyInitiative] = rules.FormatSigned(d.Initiative)
	values[KeyPassivePerception] = strconv.Itoa(d.PassivePerception)
	for a, mod := range d.Modifiers {
		values[ModKey(a)] = rules.FormatSigned(mod)
	}
	for a, save := range d.Saves {
		values[SaveKey(a)] = rules.FormatSigned(save)
	}
	for s, bonus := range d.Skills {
		values[SkillKey(s)] = rules.FormatSigned(bonus)
	}
	for i, atk := range d.Attacks {
		values[AttackKey(i)] = rules.FormatSigned(atk.Bonus)
	}
	return values
}

// SkillView is one skill line in an ability block.
type SkillView struct {
	Name       rules.Skill
	Key        string
	Bonus      string
	Proficient bool
	Expertise  bool
}

// AbilityView is one ability block: score, modifier, save and its skills.
type AbilityView struct {
	Ability        rules.Ability
	Label          string
	Name           string
	Score          int
	Mod            string
	Save           string
	SaveProficient bool
	Skills         []SkillView
}

// WeaponRow is one editable row of the attacks table.
type WeaponRow struct {
	Index      int           `json:"index"`
	Name       string        `json:"name"`
	Damage     string        `json:"damage"`
	Ability    rules.Ability `json:"ability"`
	AttackWith rules.Ability `json:"attack_with"`
	Proficient bool          `json:"proficient"`
	Type       string        `json:"type,omitempty"`
	Bonus      string        `json:"bonus"`
}

// CoinView is one input of the money block.
type CoinView struct {
	Label  string
	Input  string
	Amount int
}

// SlotView is one spell slot input.
type SlotView struct {
	Level string
	Input string
	Count int
}

// View is a sheet with every derived value already rendered, ready for the
// page template.
type View struct {
	Snapshot          Snapshot
	Abilities         []AbilityView
	ProficiencyBonus  string
	Initiative        string
	PassivePerception string
	Weapons           []WeaponRow
	Coins             []CoinView
	Slots             []SlotView
	Other             []string

	FeaturesText   string
	SpellsText     string
	AppearanceText string
	ItemsText      string
	OtherText      string

	Carriers map[string]string
}

// BuildView renders s for the sheet page.
func BuildView(s Snapshot) View {
	d := s.Derive()
	v := View{
		Snapshot:          s,
		ProficiencyBonus:  rules.FormatSigned(d.ProficiencyBonus),
		Initiative:        rules.FormatSigned(d.Initiative),
		PassivePerception: strconv.Itoa(d.PassivePerception),
		Weapons:           weaponRows(s.Weapons, d),
		Other:             s.Proficiencies.Other,
		FeaturesText:      codec.RenderFeatures(s.Features),
		SpellsText:        codec.RenderSpells(s.Spells.List),
		AppearanceText:    codec.RenderAppearance(s.Appearance),
		ItemsText:         codec.RenderItems(s.Inventory.Items),
		OtherText:         codec.RenderOther(s.Proficiencies.Other),
		Carriers:          Carriers(s),
	}

	for _, a := range rules.Abilities() {
		av := AbilityView{
			Ability:        a,
			Label:          a.Label(),
			Name:           a.Name(),
			Score:          s.Scores.Get(a),
			Mod:            rules.FormatSigned(d.Modifiers[a]),
			Save:           rules.FormatSigned(d.Saves[a]),
			SaveProficient: s.Proficiencies.HasSave(a),
		}
		for _, sk := range rules.SkillsFor(a) {
			tier := s.Proficiencies.SkillTier(sk)
			av.Skills = append(av.Skills, SkillView{
				Name:       sk,
				Key:        SkillKey(sk),
				Bonus:      rules.FormatSigned(d.Skills[sk]),
				Proficient: tier != rules.TierNone,
				Expertise:  tier == rules.TierExpertise,
			})
		}
		v.Abilities = append(v.Abilities, av)
	}

	for _, c := range codec.Currencies() {
		v.Coins = append(v.Coins, CoinView{Label: c.Label(), Input: codec.MoneyInput(c), Amount: s.Inventory.Coins(c)})
	}
	for _, key := range codec.SpellSlotKeys() {
		v.Slots = append(v.Slots, SlotView{Level: key, Input: codec.SpellSlotInput(key), Count: s.Spells.Slots[key]})
	}
	return v
}

func weaponRows(weapons []codec.Weapon, d rules.Derived) []WeaponRow {
	rows := make([]WeaponRow, len(weapons))
	for i, w := range weapons {
		rows[i] = WeaponRow{
			Index:      i,
			Name:       w.Name,
			Damage:     w.Damage,
			Ability:    w.Ability,
			AttackWith: d.Attacks[i].Ability,
			Proficient: w.Proficient,
			Type:       w.Type,
			Bonus:      rules.FormatSigned(d.Attacks[i].Bonus),
		}
	}
	return rows
}
