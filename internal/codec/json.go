package codec

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/DENFSA/CharkLi/internal/rules"
)

// Carrier field names. Each holds one record as JSON and is the only thing the
// submit path reads for that record.
const (
	FeaturesField      = "features_json"
	SpellsField        = "spells_json"
	AppearanceField    = "appearance_json"
	InventoryField     = "inventory_json"
	WeaponsField       = "weapons_json"
	ProficienciesField = "proficiencies_json"
)

// document parses s if it is well-formed JSON.
func document(s string) (gjson.Result, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	return gjson.Parse(s), true
}

func encode(v any, empty string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return empty
	}
	return string(b)
}

func stringList(r gjson.Result) []string {
	out := []string{}
	r.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String || v.Type == gjson.Number {
			if s := strings.TrimSpace(v.String()); s != "" {
				out = append(out, s)
			}
		}
		return true
	})
	return out
}

// EncodeFeatures writes the features carrier.
func EncodeFeatures(features []Feature) string {
	if features == nil {
		features = []Feature{}
	}
	return encode(features, "[]")
}

// DecodeFeatures reads the features carrier. A bare string entry becomes a
// description under the placeholder name.
func DecodeFeatures(s string) []Feature {
	features := []Feature{}
	doc, ok := document(s)
	if !ok || !doc.IsArray() {
		return features
	}
	doc.ForEach(func(_, v gjson.Result) bool {
		switch {
		case v.IsObject():
			features = append(features, Feature{
				Name:        v.Get("name").String(),
				Description: v.Get("description").String(),
			})
		case v.Type == gjson.String && strings.TrimSpace(v.Str) != "":
			features = append(features, Feature{Name: PlaceholderFeatureName, Description: strings.TrimSpace(v.Str)})
		}
		return true
	})
	return features
}

// EncodeSpells writes the spells carrier with all nine slot levels present.
func EncodeSpells(sl SpellList) string {
	out := NewSpellList()
	for _, key := range SpellSlotKeys() {
		if n := sl.Slots[key]; n > 0 {
			out.Slots[key] = n
		}
	}
	if sl.List != nil {
		out.List = sl.List
	}
	return encode(out, `{"slots":{},"list":[]}`)
}

// DecodeSpells reads the spells carrier. Slot keys outside 1..9 are ignored.
// A bare array is read as the spell list.
func DecodeSpells(s string) SpellList {
	sl := NewSpellList()
	doc, ok := document(s)
	if !ok {
		return sl
	}
	if doc.IsArray() {
		sl.List = stringList(doc)
		return sl
	}
	if !doc.IsObject() {
		return sl
	}
	doc.Get("slots").ForEach(func(k, v gjson.Result) bool {
		if _, known := sl.Slots[k.String()]; known {
			sl.Slots[k.String()] = clampCount(v.Int())
		}
		return true
	})
	sl.List = stringList(doc.Get("list"))
	return sl
}

// EncodeAppearance writes the appearance carrier.
func EncodeAppearance(a Appearance) string {
	if a == nil {
		a = Appearance{}
	}
	return encode(a, "{}")
}

// DecodeAppearance reads the appearance carrier. Numbers and booleans are
// kept as their text; nested values and blank keys are dropped.
func DecodeAppearance(s string) Appearance {
	a := Appearance{}
	doc, ok := document(s)
	if !ok || !doc.IsObject() {
		return a
	}
	doc.ForEach(func(k, v gjson.Result) bool {
		key := strings.ToLower(strings.TrimSpace(k.String()))
		if key == "" || v.IsObject() || v.IsArray() || v.Type == gjson.Null {
			return true
		}
		a[key] = strings.TrimSpace(v.String())
		return true
	})
	return a
}

// EncodeInventory writes the inventory carrier with every denomination present.
func EncodeInventory(inv Inventory) string {
	out := NewInventory()
	for _, c := range currencies {
		out.Capital[c] = clampCount(int64(inv.Capital[c]))
	}
	if inv.Items != nil {
		out.Items = inv.Items
	}
	return encode(out, `{"items":[],"capital":{}}`)
}

// DecodeInventory reads the inventory carrier. Unknown denominations are
// ignored and negative amounts clamp to zero.
func DecodeInventory(s string) Inventory {
	inv := NewInventory()
	doc, ok := document(s)
	if !ok || !doc.IsObject() {
		return inv
	}
	inv.Items = stringList(doc.Get("items"))
	doc.Get("capital").ForEach(func(k, v gjson.Result) bool {
		c := Currency(strings.ToLower(k.String()))
		if _, known := inv.Capital[c]; known {
			inv.Capital[c] = clampCount(v.Int())
		}
		return true
	})
	return inv
}

// EncodeWeapons writes the weapons carrier.
func EncodeWeapons(weapons []Weapon) string {
	if weapons == nil {
		weapons = []Weapon{}
	}
	return encode(weapons, "[]")
}

// DecodeWeapons reads the weapons carrier. Rows without a name are dropped.
// The attack ability may be stored under "ability" or the older "score".
func DecodeWeapons(s string) []Weapon {
	weapons := []Weapon{}
	doc, ok := document(s)
	if !ok || !doc.IsArray() {
		return weapons
	}
	doc.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		name := strings.TrimSpace(v.Get("name").String())
		if name == "" {
			return true
		}
		raw := v.Get("ability")
		if !raw.Exists() {
			raw = v.Get("score")
		}
		ability, _ := rules.ParseAbility(raw.String())
		weapons = append(weapons, Weapon{
			Name:       name,
			Damage:     strings.TrimSpace(v.Get("damage").String()),
			Ability:    ability,
			Proficient: v.Get("proficient").Bool(),
			Type:       strings.TrimSpace(v.Get("type").String()),
		})
		return true
	})
	return weapons
}

// EncodeProficiencies writes the proficiencies carrier.
func EncodeProficiencies(p Proficiencies) string {
	out := NewProficiencies()
	if p.Skills != nil {
		out.Skills = p.Skills
	}
	if p.Saves != nil {
		out.Saves = p.Saves
	}
	if p.Other != nil {
		out.Other = p.Other
	}
	out.Expertise = p.Expertise
	return encode(out, `{"skills":[],"saves":[],"other":[]}`)
}

// DecodeProficiencies reads the proficiencies carrier. Skill names are
// matched against the catalog and saves may use full ability names.
func DecodeProficiencies(s string) Proficiencies {
	p := NewProficiencies()
	doc, ok := document(s)
	if !ok || !doc.IsObject() {
		return p
	}
	p.Skills = ParseSkillList(strings.Join(stringList(doc.Get("skills")), ","))
	p.Saves = ParseSaveList(strings.Join(stringList(doc.Get("saves")), ","))
	p.Other = stringList(doc.Get("other"))
	if expertise := ParseSkillList(strings.Join(stringList(doc.Get("expertise")), ",")); len(expertise) > 0 {
		p.Expertise = expertise
	}
	return p
}

func clampCount(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}
