package sheet

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/rules"
)

// Scalar form fields.
const (
	FieldID                = "id"
	FieldName              = "name"
	FieldClass             = "dnd_class"
	FieldLevel             = "level"
	FieldRace              = "race"
	FieldBackground        = "background"
	FieldAlignment         = "alignment"
	FieldAC                = "ac"
	FieldSpeed             = "speed"
	FieldMaxHP             = "max_hp"
	FieldCurrentHP         = "current_hp"
	FieldTempHP            = "temp_hp"
	FieldInspiration       = "inspiration"
	FieldPersonalityTraits = "personality_traits"
	FieldIdeals            = "ideals"
	FieldBonds             = "bonds"
	FieldFlaws             = "flaws"
	FieldHistory           = "history_notes"
	FieldImageURL          = "image_url"
)

// Editable text areas. Only the live path reads these; the submit path reads
// the matching carrier instead.
const (
	FieldFeaturesText   = "features_text"
	FieldSpellsText     = "spells_text"
	FieldAppearanceText = "appearance_text"
	FieldItemsText      = "inventory_items"
)

// Proficiency carriers, kept in sync by the live view. Other proficiencies
// are edited in place, one per line.
const (
	FieldSkills    = "proficient_skills"
	FieldSaves     = "proficient_saves"
	FieldExpertise = "proficient_expertise"
	FieldOther     = "proficiencies_other"
)

// Proficiency checkboxes. The live view reads them as edits; a preview reads
// them from the form once FieldToggles marks them present.
const (
	FieldSkillToggle     = "skill"
	FieldExpertiseToggle = "expertise"
	FieldSaveToggle      = "save"
	FieldToggles         = "toggles"
)

// FieldEdit holds a JSON Edit a preview applies after reading the form.
const FieldEdit = "edit"

// FromSubmission builds a snapshot from a submitted sheet. Structured records
// come from the carrier fields only; display-only fields are ignored.
// Numbers that do not parse fall back to defaults and the level is at least 1.
func FromSubmission(form url.Values) Snapshot {
	s := NewSnapshot(0)
	s.ID = submittedID(form)
	readScalars(form, &s)
	s.Proficiencies = carrierProficiencies(form)
	s.Inventory = codec.DecodeInventory(form.Get(codec.InventoryField))
	s.Features = codec.DecodeFeatures(form.Get(codec.FeaturesField))
	s.Spells = codec.DecodeSpells(form.Get(codec.SpellsField))
	s.Weapons = codec.DecodeWeapons(form.Get(codec.WeaponsField))
	s.Appearance = codec.DecodeAppearance(form.Get(codec.AppearanceField))
	return s
}

// FromEditor builds a snapshot from the editable fields of the sheet: text
// areas, money and slot inputs and the weapon rows. Weapon rows with a blank
// name are kept so the editor can show their attack bonus. Proficiencies come
// from the checkboxes when the form carries them and from the carriers
// otherwise.
func FromEditor(form url.Values) Snapshot {
	s := NewSnapshot(0)
	s.ID = submittedID(form)
	readScalars(form, &s)
	if form.Has(FieldToggles) {
		s.Proficiencies = toggledProficiencies(form)
	} else {
		s.Proficiencies = carrierProficiencies(form)
	}
	s.Inventory = codec.Inventory{
		Items:   codec.ParseItems(form.Get(FieldItemsText)),
		Capital: codec.ReadCapital(form),
	}
	s.Features = codec.ParseFeatures(form.Get(FieldFeaturesText))
	s.Spells = codec.SpellList{
		Slots: codec.ReadSpellSlots(form),
		List:  codec.ParseSpells(form.Get(FieldSpellsText)),
	}
	s.Weapons = codec.ReadWeaponRows(form)
	s.Appearance = codec.ParseAppearance(form.Get(FieldAppearanceText))
	return s
}

// submittedID reads the hidden id field. Anything unparseable is treated as
// a new character.
func submittedID(form url.Values) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(form.Get(FieldID)), 10, 64)
	if err != nil {
		return NewID
	}
	return id
}

func carrierProficiencies(form url.Values) codec.Proficiencies {
	p := codec.Proficiencies{
		Skills: codec.ParseSkillList(form.Get(FieldSkills)),
		Saves:  codec.ParseSaveList(form.Get(FieldSaves)),
		Other:  codec.ParseOther(form.Get(FieldOther)),
	}
	if expertise := codec.ParseSkillList(form.Get(FieldExpertise)); len(expertise) > 0 {
		p.Expertise = expertise
	}
	return p
}

// toggledProficiencies reads the checked boxes. Expertise implies proficiency.
func toggledProficiencies(form url.Values) codec.Proficiencies {
	p := codec.Proficiencies{
		Skills: codec.ParseSkillList(strings.Join(form[FieldSkillToggle], ",")),
		Saves:  codec.ParseSaveList(strings.Join(form[FieldSaveToggle], ",")),
		Other:  codec.ParseOther(form.Get(FieldOther)),
	}
	for _, sk := range codec.ParseSkillList(strings.Join(form[FieldExpertiseToggle], ",")) {
		p.SetExpertise(sk, true)
	}
	return p
}

// clampLevel keeps a character at level 1 or above.
func clampLevel(n int) int {
	return max(n, 1)
}

func readScalars(form url.Values, s *Snapshot) {
	s.Name = strings.TrimSpace(form.Get(FieldName))
	s.Class = strings.TrimSpace(form.Get(FieldClass))
	s.Level = clampLevel(codec.ParseInt(form.Get(FieldLevel), 1))
	s.Race = strings.TrimSpace(form.Get(FieldRace))
	s.Background = strings.TrimSpace(form.Get(FieldBackground))
	s.Alignment = strings.TrimSpace(form.Get(FieldAlignment))
	for _, a := range rules.Abilities() {
		s.Scores.Set(a, codec.ParseInt(form.Get(string(a)), rules.DefaultScore))
	}
	s.AC = codec.ParseInt(form.Get(FieldAC), 0)
	s.Speed = codec.ParseInt(form.Get(FieldSpeed), 0)
	s.HP = HP{
		Max:     codec.ParseInt(form.Get(FieldMaxHP), 0),
		Current: codec.ParseInt(form.Get(FieldCurrentHP), 0),
		Temp:    codec.ParseInt(form.Get(FieldTempHP), 0),
	}
	s.Inspiration = form.Get(FieldInspiration) == "on"
	s.PersonalityTraits = form.Get(FieldPersonalityTraits)
	s.Ideals = form.Get(FieldIdeals)
	s.Bonds = form.Get(FieldBonds)
	s.Flaws = form.Get(FieldFlaws)
	s.History = form.Get(FieldHistory)
	s.ImageURL = strings.TrimSpace(form.Get(FieldImageURL))
}

// Carriers returns every carrier field for s, keyed by form field name.
func Carriers(s Snapshot) map[string]string {
	named := codec.NamedWeapons(s.Weapons)
	return map[string]string{
		codec.FeaturesField:   codec.EncodeFeatures(s.Features),
		codec.SpellsField:     codec.EncodeSpells(s.Spells),
		codec.AppearanceField: codec.EncodeAppearance(s.Appearance),
		codec.InventoryField:  codec.EncodeInventory(s.Inventory),
		codec.WeaponsField:    codec.EncodeWeapons(named),
		FieldSkills:           codec.RenderSkillList(s.Proficiencies.Skills),
		FieldSaves:            codec.RenderSaveList(s.Proficiencies.Saves),
		FieldExpertise:        codec.RenderSkillList(s.Proficiencies.Expertise),
	}
}
