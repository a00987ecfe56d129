package codec

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/DENFSA/CharkLi/internal/rules"
)

func TestReadCapital(t *testing.T) {
	form := url.Values{
		"money_gp": {"12"},
		"money_sp": {"abc"},
		"money_cp": {"-4"},
		"money_pp": {" 3 "},
	}
	got := ReadCapital(form)
	want := map[Currency]int{Gold: 12, Silver: 0, Copper: 0, Platinum: 3, Electrum: 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadCapital() = %v, want %v", got, want)
	}
}

func TestParseItems(t *testing.T) {
	got := ParseItems("Chain Mail\n\n  Shield  \n")
	want := []string{"Chain Mail", "Shield"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseItems() = %q, want %q", got, want)
	}
	if got := RenderItems(want); got != "Chain Mail\nShield" {
		t.Errorf("RenderItems() = %q", got)
	}
	if got := ParseItems(""); got == nil || len(got) != 0 {
		t.Errorf("ParseItems(\"\") = %#v, want empty non-nil slice", got)
	}
}

func TestReadSpellSlots(t *testing.T) {
	form := url.Values{
		"spell_slot_1":  {"4"},
		"spell_slot_2":  {"3"},
		"spell_slot_3":  {"x"},
		"spell_slot_10": {"9"},
	}
	got := ReadSpellSlots(form)
	if len(got) != MaxSpellLevel {
		t.Fatalf("ReadSpellSlots() returned %d levels, want %d", len(got), MaxSpellLevel)
	}
	if got["1"] != 4 || got["2"] != 3 || got["3"] != 0 || got["9"] != 0 {
		t.Errorf("ReadSpellSlots() = %v", got)
	}
	if _, ok := got["10"]; ok {
		t.Error("slot level 10 should not be read")
	}
}

func TestParseSpells(t *testing.T) {
	got := ParseSpells("Fire Bolt\n  \nShield\nMagic Missile  ")
	want := []string{"Fire Bolt", "Shield", "Magic Missile"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSpells() = %q, want %q", got, want)
	}
	if got := ParseSpells(RenderSpells(want)); !reflect.DeepEqual(got, want) {
		t.Errorf("spell round trip = %q, want %q", got, want)
	}
}

func TestReadWeapons(t *testing.T) {
	form := url.Values{
		"weapon_0_name":       {" Longsword "},
		"weapon_0_damage":     {"1d8 slashing"},
		"weapon_0_ability":    {"str"},
		"weapon_0_proficient": {"true"},
		"weapon_2_name":       {"Dagger"},
		"weapon_2_damage":     {"1d4 piercing"},
		"weapon_2_ability":    {"dex"},
		"weapon_2_proficient": {"yes"},
		"weapon_1_name":       {"   "},
		"weapon_1_damage":     {"1d6"},
		"weapon_x_name":       {"ignored"},
	}
	got := ReadWeapons(form)
	want := []Weapon{
		{Name: "Longsword", Damage: "1d8 slashing", Ability: rules.Strength, Proficient: true},
		{Name: "Dagger", Damage: "1d4 piercing", Ability: rules.Dexterity, Proficient: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadWeapons() = %+v, want %+v", got, want)
	}

	rows := ReadWeaponRows(form)
	if len(rows) != 3 {
		t.Errorf("ReadWeaponRows() returned %d rows, want 3", len(rows))
	}
}

func TestWeaponInputsReindexes(t *testing.T) {
	rows := []Weapon{
		{Name: "Club", Damage: "1d4", Ability: rules.Strength},
		{Name: "Sling", Damage: "1d4", Ability: rules.Dexterity, Proficient: true},
	}
	form := WeaponInputs(rows)
	if form.Get("weapon_1_name") != "Sling" || form.Get("weapon_1_proficient") != "true" {
		t.Errorf("WeaponInputs() = %v", form)
	}
	if got := ReadWeapons(form); !reflect.DeepEqual(got, rows) {
		t.Errorf("ReadWeapons(WeaponInputs()) = %+v, want %+v", got, rows)
	}
}

func TestWeaponAttackAbility(t *testing.T) {
	scores := rules.Scores{Str: 10, Dex: 16}
	if got := (Weapon{}).AttackAbility(scores); got != rules.Dexterity {
		t.Errorf("empty ability resolved to %s, want dex", got)
	}
	if got := (Weapon{Ability: rules.Strength}).AttackAbility(scores); got != rules.Strength {
		t.Errorf("stored ability resolved to %s, want str", got)
	}
	if w := NewWeapon(); w.Name != "New Weapon" || w.Damage != "1d4 piercing" || w.Ability != rules.Strength || w.Proficient {
		t.Errorf("NewWeapon() = %+v", w)
	}
}

func TestProficiencyLists(t *testing.T) {
	skills := ParseSkillList("stealth, Perseption,Basket Weaving, Stealth,")
	want := []rules.Skill{"Stealth", "Perception"}
	if !reflect.DeepEqual(skills, want) {
		t.Errorf("ParseSkillList() = %q, want %q", skills, want)
	}
	if got := RenderSkillList(want); got != "Stealth, Perception" {
		t.Errorf("RenderSkillList() = %q", got)
	}

	saves := ParseSaveList("Strength, con, luck")
	if !reflect.DeepEqual(saves, []rules.Ability{rules.Strength, rules.Constitution}) {
		t.Errorf("ParseSaveList() = %q", saves)
	}
	if got := RenderSaveList(saves); got != "str, con" {
		t.Errorf("RenderSaveList() = %q", got)
	}
}

func TestProficienciesToggle(t *testing.T) {
	p := NewProficiencies()
	p.SetSkill("Stealth", true)
	p.SetSkill("Athletics", true)
	if !reflect.DeepEqual(p.Skills, []rules.Skill{"Athletics", "Stealth"}) {
		t.Errorf("skills = %q, want catalog order", p.Skills)
	}

	p.SetExpertise("Perception", true)
	if p.SkillTier("Perception") != rules.TierExpertise {
		t.Errorf("Perception tier = %v, want expertise", p.SkillTier("Perception"))
	}
	p.SetSkill("Perception", false)
	if p.SkillTier("Perception") != rules.TierNone {
		t.Errorf("Perception tier after removal = %v, want none", p.SkillTier("Perception"))
	}

	p.SetSave(rules.Constitution, true)
	p.SetSave(rules.Strength, true)
	p.SetSave(rules.Constitution, false)
	if !reflect.DeepEqual(p.Saves, []rules.Ability{rules.Strength}) {
		t.Errorf("saves = %q", p.Saves)
	}
	if !p.HasSave(rules.Strength) || p.HasSave(rules.Wisdom) {
		t.Errorf("HasSave() mismatch for %q", p.Saves)
	}
}
