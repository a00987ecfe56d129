package sheet

import (
	"encoding/json"
	"net/url"
	"slices"
	"testing"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/rules"
)

func TestLiveAbilityEdit(t *testing.T) {
	l := NewLive(NewSnapshot(1))

	u := l.Apply(Edit{Kind: EditField, Field: "dex", Value: "14"})
	if u.Values[ModKey(rules.Dexterity)] != "+2" {
		t.Errorf("dex modifier = %s, want +2", u.Values[ModKey(rules.Dexterity)])
	}
	if u.Values[KeyInitiative] != "+2" {
		t.Errorf("initiative = %s, want +2", u.Values[KeyInitiative])
	}
	if u.Values[SkillKey("Stealth")] != "+2" {
		t.Errorf("stealth = %s, want +2", u.Values[SkillKey("Stealth")])
	}

	// A half-typed value computes as the default until blur.
	u = l.Apply(Edit{Kind: EditField, Field: "dex", Value: ""})
	if u.Values[ModKey(rules.Dexterity)] != "+0" {
		t.Errorf("dex modifier while empty = %s, want +0", u.Values[ModKey(rules.Dexterity)])
	}
}

func TestLiveBlurResetsScore(t *testing.T) {
	tests := []struct {
		value     string
		wantReset bool
	}{
		{"", true},
		{"0", true},
		{"-3", true},
		{"abc", true},
		{"1", false},
		{"18", false},
	}
	for _, tt := range tests {
		l := NewLive(NewSnapshot(1))
		l.Apply(Edit{Kind: EditField, Field: "str", Value: tt.value})
		u := l.Apply(Edit{Kind: EditBlur, Field: "str", Value: tt.value})
		got, reset := u.Fields["str"]
		if reset != tt.wantReset {
			t.Errorf("blur %q: reset = %v, want %v", tt.value, reset, tt.wantReset)
		}
		if reset && got != "10" {
			t.Errorf("blur %q: reset to %q, want 10", tt.value, got)
		}
		if tt.wantReset && l.Snapshot().Scores.Str != rules.DefaultScore {
			t.Errorf("blur %q: score = %d, want 10", tt.value, l.Snapshot().Scores.Str)
		}
	}
}

func TestLiveLevelChangesEverything(t *testing.T) {
	s := NewSnapshot(1)
	s.Proficiencies.Skills = []rules.Skill{"Athletics"}
	s.Proficiencies.Saves = []rules.Ability{rules.Strength}
	s.Weapons = []codec.Weapon{{Name: "Maul", Damage: "2d6", Ability: rules.Strength, Proficient: true}}
	l := NewLive(s)

	u := l.Apply(Edit{Kind: EditField, Field: FieldLevel, Value: "17"})
	want := map[string]string{
		KeyProficiencyBonus:     "+6",
		SaveKey(rules.Strength): "+6",
		SkillKey("Athletics"):   "+6",
		AttackKey(0):            "+6",
		SaveKey(rules.Wisdom):   "+0",
	}
	for k, v := range want {
		if u.Values[k] != v {
			t.Errorf("%s = %s, want %s", k, u.Values[k], v)
		}
	}
}

func TestLiveProficiencyToggles(t *testing.T) {
	l := NewLive(NewSnapshot(1))

	u := l.Apply(Edit{Kind: EditSkill, Field: "Perception", Checked: true})
	if u.Values[KeyPassivePerception] != "12" {
		t.Errorf("passive perception = %s, want 12", u.Values[KeyPassivePerception])
	}
	if u.Fields[FieldSkills] != "Perception" {
		t.Errorf("skills carrier = %q", u.Fields[FieldSkills])
	}

	u = l.Apply(Edit{Kind: EditExpertise, Field: "perception", Checked: true})
	if u.Values[KeyPassivePerception] != "14" {
		t.Errorf("passive perception with expertise = %s, want 14", u.Values[KeyPassivePerception])
	}

	u = l.Apply(Edit{Kind: EditSave, Field: "wis", Checked: true})
	if u.Values[SaveKey(rules.Wisdom)] != "+2" || u.Fields[FieldSaves] != "wis" {
		t.Errorf("wis save = %s, carrier %q", u.Values[SaveKey(rules.Wisdom)], u.Fields[FieldSaves])
	}

	u = l.Apply(Edit{Kind: EditSkill, Field: "Perception", Checked: false})
	if u.Values[KeyPassivePerception] != "10" || u.Fields[FieldExpertise] != "" {
		t.Errorf("after untoggle: passive %s, expertise %q", u.Values[KeyPassivePerception], u.Fields[FieldExpertise])
	}
}

func TestLiveWeaponRows(t *testing.T) {
	s := NewSnapshot(1)
	s.Scores.Dex = 16
	l := NewLive(s)

	u := l.Apply(Edit{Kind: EditAddWeapon})
	if len(u.Weapons) != 1 {
		t.Fatalf("rows after add = %d, want 1", len(u.Weapons))
	}
	row := u.Weapons[0]
	if row.Name != "New Weapon" || row.Damage != "1d4 piercing" || row.Ability != rules.Strength || row.Proficient {
		t.Errorf("new row = %+v", row)
	}
	if u.Values[AttackKey(0)] != "+0" {
		t.Errorf("new row attack = %s, want +0", u.Values[AttackKey(0)])
	}

	l.Apply(Edit{Kind: EditAddWeapon})
	u = l.Apply(Edit{Kind: EditWeapon, Index: 1, Field: codec.WeaponAbility, Value: "dex"})
	if u.Weapons != nil {
		t.Error("field edit should not re-render rows")
	}
	if u.Values[AttackKey(1)] != "+3" {
		t.Errorf("dex row attack = %s, want +3", u.Values[AttackKey(1)])
	}
	u = l.Apply(Edit{Kind: EditWeapon, Index: 1, Field: codec.WeaponProficient, Value: "true"})
	if u.Values[AttackKey(1)] != "+5" {
		t.Errorf("proficient dex row attack = %s, want +5", u.Values[AttackKey(1)])
	}

	u = l.Apply(Edit{Kind: EditRemoveWeapon, Index: 0})
	if len(u.Weapons) != 1 || u.Weapons[0].Index != 0 || u.Weapons[0].Ability != rules.Dexterity {
		t.Errorf("rows after remove = %+v", u.Weapons)
	}
	if _, ok := u.Values[AttackKey(1)]; ok {
		t.Error("stale attack value for removed row")
	}

	u = l.Apply(Edit{Kind: EditRemoveWeapon, Index: 5})
	if u.Weapons != nil {
		t.Error("out of range remove should not re-render rows")
	}
}

func TestLiveBlankWeaponLeftOutOfCarrier(t *testing.T) {
	l := NewLive(NewSnapshot(1))
	l.Apply(Edit{Kind: EditAddWeapon})
	u := l.Apply(Edit{Kind: EditWeapon, Index: 0, Field: codec.WeaponName, Value: "   "})
	if u.Fields[codec.WeaponsField] != "[]" {
		t.Errorf("weapons carrier = %s, want []", u.Fields[codec.WeaponsField])
	}
	if _, ok := u.Values[AttackKey(0)]; !ok {
		t.Error("blank row should still show its attack bonus")
	}
}

func TestLiveTextAreasFillCarriers(t *testing.T) {
	l := NewLive(NewSnapshot(1))
	l.Apply(Edit{Kind: EditField, Field: FieldFeaturesText, Value: "[Bravery]: Fear immunity\n\nJust a note"})
	l.Apply(Edit{Kind: EditField, Field: FieldAppearanceText, Value: "Eyes: Blue\nHeight: 180cm"})
	l.Apply(Edit{Kind: EditField, Field: codec.MoneyInput(codec.Gold), Value: "15"})
	u := l.Apply(Edit{Kind: EditField, Field: codec.SpellSlotInput("3"), Value: "2"})

	features := codec.DecodeFeatures(u.Fields[codec.FeaturesField])
	if len(features) != 2 || features[1].Name != codec.PlaceholderFeatureName {
		t.Errorf("features carrier = %s", u.Fields[codec.FeaturesField])
	}
	appearance := codec.DecodeAppearance(u.Fields[codec.AppearanceField])
	if appearance["eyes"] != "Blue" || appearance["height"] != "180cm" {
		t.Errorf("appearance carrier = %s", u.Fields[codec.AppearanceField])
	}
	if inv := codec.DecodeInventory(u.Fields[codec.InventoryField]); inv.Coins(codec.Gold) != 15 {
		t.Errorf("inventory carrier = %s", u.Fields[codec.InventoryField])
	}
	if sl := codec.DecodeSpells(u.Fields[codec.SpellsField]); sl.Slots["3"] != 2 {
		t.Errorf("spells carrier = %s", u.Fields[codec.SpellsField])
	}
}

func TestNewLiveDoesNotShareState(t *testing.T) {
	s := DemoSnapshot(1, "a@b.c")
	l := NewLive(s)
	l.Apply(Edit{Kind: EditWeapon, Index: 0, Field: codec.WeaponName, Value: "Greatsword"})
	l.Apply(Edit{Kind: EditField, Field: codec.MoneyInput(codec.Gold), Value: "0"})
	if s.Weapons[0].Name != "Longsword" || s.Inventory.Coins(codec.Gold) != 10 {
		t.Errorf("source snapshot changed: %+v %+v", s.Weapons, s.Inventory)
	}
}

func TestPreviewRendersRows(t *testing.T) {
	u := Preview(map[string][]string{
		"weapon_0_name": {"Club"},
		"str":           {"12"},
	})
	if len(u.Weapons) != 1 || u.Weapons[0].Bonus != "+1" {
		t.Errorf("preview rows = %+v", u.Weapons)
	}
}

func TestLiveLevelClampsToOne(t *testing.T) {
	tests := []struct {
		value     string
		wantPB    string
		wantReset string
	}{
		{"0", "+2", "1"},
		{"-4", "+2", "1"},
		{"", "+2", ""},
		{"5", "+3", ""},
	}

	for _, tt := range tests {
		l := NewLive(NewSnapshot(1))
		u := l.Apply(Edit{Kind: EditField, Field: FieldLevel, Value: tt.value})
		if u.Values[KeyProficiencyBonus] != tt.wantPB {
			t.Errorf("level %q: proficiency bonus = %q, want %q", tt.value, u.Values[KeyProficiencyBonus], tt.wantPB)
		}
		if u.Fields[FieldLevel] != tt.wantReset {
			t.Errorf("level %q: reset = %q, want %q", tt.value, u.Fields[FieldLevel], tt.wantReset)
		}
		if l.Snapshot().Level < 1 {
			t.Errorf("level %q: stored level = %d", tt.value, l.Snapshot().Level)
		}
	}
}

func TestNewLiveKeepsPartialRecords(t *testing.T) {
	s := NewSnapshot(1)
	s.Spells = codec.SpellList{List: []string{"Shield"}}
	s.Inventory = codec.Inventory{Items: []string{"Rope"}}

	l := NewLive(s)
	u := l.Refresh()

	spells := codec.DecodeSpells(u.Fields[codec.SpellsField])
	if !slices.Equal(spells.List, []string{"Shield"}) {
		t.Errorf("spell list = %q, want [Shield]", spells.List)
	}
	if spells.Slots == nil {
		t.Error("spell slots not defaulted")
	}
	inv := codec.DecodeInventory(u.Fields[codec.InventoryField])
	if !slices.Equal(inv.Items, []string{"Rope"}) {
		t.Errorf("items = %q, want [Rope]", inv.Items)
	}

	// Slot and money edits need the defaulted maps.
	l.Apply(Edit{Kind: EditField, Field: codec.SpellSlotInput("1"), Value: "3"})
	u = l.Apply(Edit{Kind: EditField, Field: codec.MoneyInput(codec.Gold), Value: "7"})
	if got := codec.DecodeSpells(u.Fields[codec.SpellsField]); got.Slots["1"] != 3 || len(got.List) != 1 {
		t.Errorf("spells after slot edit = %s", u.Fields[codec.SpellsField])
	}
	if got := codec.DecodeInventory(u.Fields[codec.InventoryField]); got.Coins(codec.Gold) != 7 || len(got.Items) != 1 {
		t.Errorf("inventory after money edit = %s", u.Fields[codec.InventoryField])
	}
}

func TestLiveSnapshotIsACopy(t *testing.T) {
	s := DemoSnapshot(1, "a@b.c")
	s.Proficiencies.Skills = []rules.Skill{"Athletics"}
	s.Proficiencies.Other = []string{"Common"}
	l := NewLive(s)

	snap := l.Snapshot()
	snap.Weapons[0].Name = "Stick"
	snap.Proficiencies.Skills[0] = "Stealth"
	snap.Proficiencies.Other[0] = "Draconic"
	snap.Inventory.Capital[codec.Gold] = 999
	snap.Appearance["eyes"] = "red"

	got := l.Snapshot()
	if got.Weapons[0].Name != "Longsword" {
		t.Errorf("weapon name = %q, want %q", got.Weapons[0].Name, "Longsword")
	}
	if got.Proficiencies.Skills[0] != "Athletics" {
		t.Errorf("skill = %q, want %q", got.Proficiencies.Skills[0], "Athletics")
	}
	if got.Proficiencies.Other[0] != "Common" {
		t.Errorf("other = %q, want %q", got.Proficiencies.Other[0], "Common")
	}
	if got.Inventory.Coins(codec.Gold) == 999 {
		t.Error("capital shared with caller")
	}
	if got.Appearance["eyes"] == "red" {
		t.Error("appearance shared with caller")
	}
	if s.Proficiencies.Skills[0] != "Athletics" {
		t.Errorf("source skill = %q, want %q", s.Proficiencies.Skills[0], "Athletics")
	}
}

func TestPreviewAppliesPendingEdit(t *testing.T) {
	edit := func(e Edit) string {
		b, err := json.Marshal(e)
		if err != nil {
			t.Fatal(err)
		}
		return string(b)
	}

	tests := []struct {
		name        string
		form        url.Values
		wantRows    int
		wantStealth string
		wantSkills  string
	}{
		{
			name:        "skill checkbox",
			form:        url.Values{FieldToggles: {"1"}, FieldSkillToggle: {"Stealth"}, "dex": {"14"}},
			wantRows:    0,
			wantStealth: "+4",
			wantSkills:  "Stealth",
		},
		{
			name: "skill toggled off",
			form: url.Values{FieldToggles: {"1"}, FieldSkillToggle: {"Stealth"}, "dex": {"14"},
				FieldEdit: {edit(Edit{Kind: EditSkill, Field: "Stealth"})}},
			wantRows:    0,
			wantStealth: "+2",
			wantSkills:  "",
		},
		{
			name:        "toggles ignore stale carrier",
			form:        url.Values{FieldToggles: {"1"}, FieldSkills: {"Stealth"}, "dex": {"14"}},
			wantRows:    0,
			wantStealth: "+2",
			wantSkills:  "",
		},
		{
			name:        "add weapon",
			form:        url.Values{"weapon_0_name": {"Club"}, FieldEdit: {edit(Edit{Kind: EditAddWeapon})}},
			wantRows:    2,
			wantStealth: "+0",
		},
		{
			name: "remove weapon",
			form: url.Values{"weapon_0_name": {"Club"}, "weapon_1_name": {"Dagger"},
				FieldEdit: {edit(Edit{Kind: EditRemoveWeapon, Index: 0})}},
			wantRows:    1,
			wantStealth: "+0",
		},
		{
			name:        "malformed edit",
			form:        url.Values{"weapon_0_name": {"Club"}, FieldEdit: {"{not json"}},
			wantRows:    1,
			wantStealth: "+0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Preview(tt.form)
			if len(u.Weapons) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(u.Weapons), tt.wantRows)
			}
			if u.Values[SkillKey("Stealth")] != tt.wantStealth {
				t.Errorf("stealth = %q, want %q", u.Values[SkillKey("Stealth")], tt.wantStealth)
			}
			if u.Fields[FieldSkills] != tt.wantSkills {
				t.Errorf("skills carrier = %q, want %q", u.Fields[FieldSkills], tt.wantSkills)
			}
		})
	}
}
