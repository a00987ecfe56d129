package codec

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/DENFSA/CharkLi/internal/rules"
)

// Weapon row field names, used in the weapon_<i>_<field> form inputs.
const (
	WeaponName       = "name"
	WeaponDamage     = "damage"
	WeaponAbility    = "ability"
	WeaponProficient = "proficient"
	WeaponType       = "type"
)

var weaponField = regexp.MustCompile(`^weapon_(\d+)_` + WeaponName + `$`)

// Weapon is one row of the attacks table. An empty Ability means the row
// attacks with the better of STR and DEX.
type Weapon struct {
	Name       string        `json:"name"`
	Damage     string        `json:"damage"`
	Ability    rules.Ability `json:"ability,omitempty"`
	Proficient bool          `json:"proficient"`
	Type       string        `json:"type,omitempty"`
}

// NewWeapon returns the row inserted by "add weapon".
func NewWeapon() Weapon {
	return Weapon{
		Name:    "New Weapon",
		Damage:  "1d4 piercing",
		Ability: rules.Strength,
	}
}

// AttackAbility resolves the ability the row attacks with.
func (w Weapon) AttackAbility(scores rules.Scores) rules.Ability {
	if w.Ability.Valid() {
		return w.Ability
	}
	return scores.FinesseAbility()
}

// WeaponInput is the form field name for one field of row i.
func WeaponInput(i int, field string) string {
	return "weapon_" + strconv.Itoa(i) + "_" + field
}

// ReadWeaponRows reads every weapon_<i>_* group in index order, including
// rows whose name is still blank.
func ReadWeaponRows(form url.Values) []Weapon {
	var indices []int
	for key := range form {
		m := weaponField.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if i, err := strconv.Atoi(m[1]); err == nil {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	rows := make([]Weapon, 0, len(indices))
	for _, i := range indices {
		ability, _ := rules.ParseAbility(form.Get(WeaponInput(i, WeaponAbility)))
		rows = append(rows, Weapon{
			Name:       strings.TrimSpace(form.Get(WeaponInput(i, WeaponName))),
			Damage:     strings.TrimSpace(form.Get(WeaponInput(i, WeaponDamage))),
			Ability:    ability,
			Proficient: form.Get(WeaponInput(i, WeaponProficient)) == "true",
			Type:       strings.TrimSpace(form.Get(WeaponInput(i, WeaponType))),
		})
	}
	return rows
}

// ReadWeapons reads the weapon rows and keeps those with a name.
func ReadWeapons(form url.Values) []Weapon {
	return NamedWeapons(ReadWeaponRows(form))
}

// NamedWeapons drops rows whose trimmed name is blank.
func NamedWeapons(rows []Weapon) []Weapon {
	out := make([]Weapon, 0, len(rows))
	for _, w := range rows {
		w.Name = strings.TrimSpace(w.Name)
		if w.Name == "" {
			continue
		}
		w.Damage = strings.TrimSpace(w.Damage)
		out = append(out, w)
	}
	return out
}

// WeaponInputs returns the rows as form values with contiguous indices.
func WeaponInputs(rows []Weapon) url.Values {
	form := url.Values{}
	for i, w := range rows {
		form.Set(WeaponInput(i, WeaponName), w.Name)
		form.Set(WeaponInput(i, WeaponDamage), w.Damage)
		form.Set(WeaponInput(i, WeaponAbility), string(w.Ability))
		form.Set(WeaponInput(i, WeaponProficient), strconv.FormatBool(w.Proficient))
		if w.Type != "" {
			form.Set(WeaponInput(i, WeaponType), w.Type)
		}
	}
	return form
}
