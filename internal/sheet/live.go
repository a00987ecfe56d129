package sheet

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/rules"
)

// EditKind names one kind of UI event.
type EditKind string

const (
	// EditField is typing into any input or text area. Field is the form
	// field name and Value its current content.
	EditField EditKind = "field"
	// EditBlur is an ability score input losing focus.
	EditBlur EditKind = "blur"
	// EditSkill toggles proficiency in the skill named by Field.
	EditSkill EditKind = "skill"
	// EditExpertise toggles expertise in the skill named by Field.
	EditExpertise EditKind = "expertise"
	// EditSave toggles proficiency in the save of the ability named by Field.
	EditSave EditKind = "save"
	// EditWeapon changes one field of weapon row Index.
	EditWeapon EditKind = "weapon"
	// EditAddWeapon appends a default weapon row.
	EditAddWeapon EditKind = "add_weapon"
	// EditRemoveWeapon deletes weapon row Index.
	EditRemoveWeapon EditKind = "remove_weapon"
)

// Edit is one UI event sent by the sheet page.
type Edit struct {
	Kind    EditKind `json:"kind"`
	Field   string   `json:"field,omitempty"`
	Value   string   `json:"value,omitempty"`
	Checked bool     `json:"checked,omitempty"`
	Index   int      `json:"index,omitempty"`
}

// Update is what the page applies after an edit: every derived display value,
// every carrier field and any input the edit reset. Weapons is set only when
// rows were added or removed, and then holds every row with fresh indices.
type Update struct {
	Values  map[string]string `json:"values"`
	Fields  map[string]string `json:"fields"`
	Weapons []WeaponRow       `json:"weapons,omitempty"`
}

// Live is the editing state of one open sheet. It is not safe for concurrent
// use; each connection owns one and applies edits in arrival order.
type Live struct {
	snap Snapshot
}

// NewLive starts an editing session from a stored or blank snapshot.
func NewLive(s Snapshot) *Live {
	l := &Live{snap: s.clone()}
	if l.snap.Spells.Slots == nil {
		l.snap.Spells.Slots = codec.NewSpellList().Slots
	}
	if l.snap.Inventory.Capital == nil {
		l.snap.Inventory.Capital = codec.NewInventory().Capital
	}
	if l.snap.Appearance == nil {
		l.snap.Appearance = codec.Appearance{}
	}
	return l
}

// Snapshot returns a copy of the current editing state.
func (l *Live) Snapshot() Snapshot {
	return l.snap.clone()
}

// Refresh recomputes without applying an edit. The page asks for it once the
// socket opens.
func (l *Live) Refresh() Update {
	return l.update(nil, false)
}

// Apply processes one edit and recomputes every derived value.
func (l *Live) Apply(e Edit) Update {
	return l.update(l.apply(e))
}

// apply changes the editing state and reports the inputs it reset and
// whether weapon rows were added or removed.
func (l *Live) apply(e Edit) (reset map[string]string, structural bool) {
	reset = make(map[string]string)

	switch e.Kind {
	case EditField:
		l.applyField(e.Field, e.Value, reset)
	case EditBlur:
		if a, ok := rules.ParseAbility(e.Field); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(e.Value)); err != nil || n < 1 {
				l.snap.Scores.Set(a, rules.DefaultScore)
				reset[string(a)] = strconv.Itoa(rules.DefaultScore)
			}
		}
	case EditSkill:
		if s, ok := rules.CanonicalSkill(e.Field); ok {
			l.snap.Proficiencies.SetSkill(s, e.Checked)
		}
	case EditExpertise:
		if s, ok := rules.CanonicalSkill(e.Field); ok {
			l.snap.Proficiencies.SetExpertise(s, e.Checked)
		}
	case EditSave:
		if a, ok := rules.ParseAbility(e.Field); ok {
			l.snap.Proficiencies.SetSave(a, e.Checked)
		}
	case EditWeapon:
		l.applyWeapon(e.Index, e.Field, e.Value)
	case EditAddWeapon:
		l.snap.Weapons = append(l.snap.Weapons, codec.NewWeapon())
		structural = true
	case EditRemoveWeapon:
		if e.Index >= 0 && e.Index < len(l.snap.Weapons) {
			l.snap.Weapons = append(l.snap.Weapons[:e.Index:e.Index], l.snap.Weapons[e.Index+1:]...)
			structural = true
		}
	}
	return reset, structural
}

func (l *Live) applyField(field, value string, reset map[string]string) {
	if a, ok := rules.ParseAbility(field); ok && string(a) == field {
		l.snap.Scores.Set(a, codec.ParseInt(value, rules.DefaultScore))
		return
	}

	s := &l.snap
	switch field {
	case FieldLevel:
		n := codec.ParseInt(value, 1)
		s.Level = clampLevel(n)
		if n != s.Level {
			reset[FieldLevel] = strconv.Itoa(s.Level)
		}
	case FieldFeaturesText:
		s.Features = codec.ParseFeatures(value)
	case FieldSpellsText:
		s.Spells.List = codec.ParseSpells(value)
	case FieldAppearanceText:
		s.Appearance = codec.ParseAppearance(value)
	case FieldItemsText:
		s.Inventory.Items = codec.ParseItems(value)
	case FieldOther:
		s.Proficiencies.Other = codec.ParseOther(value)
	case FieldName:
		s.Name = value
	case FieldClass:
		s.Class = value
	case FieldRace:
		s.Race = value
	case FieldBackground:
		s.Background = value
	case FieldAlignment:
		s.Alignment = value
	case FieldAC:
		s.AC = codec.ParseInt(value, 0)
	case FieldSpeed:
		s.Speed = codec.ParseInt(value, 0)
	case FieldMaxHP:
		s.HP.Max = codec.ParseInt(value, 0)
	case FieldCurrentHP:
		s.HP.Current = codec.ParseInt(value, 0)
	case FieldTempHP:
		s.HP.Temp = codec.ParseInt(value, 0)
	case FieldInspiration:
		s.Inspiration = value == "on"
	case FieldPersonalityTraits:
		s.PersonalityTraits = value
	case FieldIdeals:
		s.Ideals = value
	case FieldBonds:
		s.Bonds = value
	case FieldFlaws:
		s.Flaws = value
	case FieldHistory:
		s.History = value
	case FieldImageURL:
		s.ImageURL = strings.TrimSpace(value)
	default:
		for _, c := range codec.Currencies() {
			if field == codec.MoneyInput(c) {
				s.Inventory.Capital[c] = codec.ParseCount(value)
				return
			}
		}
		for _, key := range codec.SpellSlotKeys() {
			if field == codec.SpellSlotInput(key) {
				s.Spells.Slots[key] = codec.ParseCount(value)
				return
			}
		}
	}
}

func (l *Live) applyWeapon(i int, field, value string) {
	if i < 0 || i >= len(l.snap.Weapons) {
		return
	}
	w := &l.snap.Weapons[i]
	switch field {
	case codec.WeaponName:
		w.Name = value
	case codec.WeaponDamage:
		w.Damage = value
	case codec.WeaponAbility:
		w.Ability, _ = rules.ParseAbility(value)
	case codec.WeaponProficient:
		w.Proficient = value == "true"
	case codec.WeaponType:
		w.Type = value
	}
}

func (l *Live) update(reset map[string]string, structural bool) Update {
	d := l.snap.Derive()
	u := Update{
		Values: DisplayValues(d),
		Fields: Carriers(l.snap),
	}
	for k, v := range reset {
		u.Fields[k] = v
	}
	if structural {
		u.Weapons = weaponRows(l.snap.Weapons, d)
	}
	return u
}

// Preview recomputes a whole editable form in one step. It serves clients
// that cannot keep a live connection open. A JSON Edit in FieldEdit is
// applied after the form is read, so row changes and toggles made while
// offline still land. Weapon rows are always returned.
func Preview(form url.Values) Update {
	l := NewLive(FromEditor(form))
	var reset map[string]string
	if raw := form.Get(FieldEdit); raw != "" {
		var e Edit
		if err := json.Unmarshal([]byte(raw), &e); err == nil {
			reset, _ = l.apply(e)
		}
	}
	return l.update(reset, true)
}
