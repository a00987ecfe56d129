package codec

import (
	"reflect"
	"testing"

	"github.com/DENFSA/CharkLi/internal/rules"
)

func TestDecodeMalformedCarriers(t *testing.T) {
	inputs := []string{"", "not json", "{", "null", "42", `"text"`}
	for _, in := range inputs {
		if got := DecodeFeatures(in); len(got) != 0 {
			t.Errorf("DecodeFeatures(%q) = %+v, want empty", in, got)
		}
		if got := DecodeWeapons(in); len(got) != 0 {
			t.Errorf("DecodeWeapons(%q) = %+v, want empty", in, got)
		}
		if got := DecodeAppearance(in); len(got) != 0 {
			t.Errorf("DecodeAppearance(%q) = %v, want empty", in, got)
		}
		if got := DecodeInventory(in); !reflect.DeepEqual(got, NewInventory()) {
			t.Errorf("DecodeInventory(%q) = %+v, want default", in, got)
		}
		if got := DecodeSpells(in); !reflect.DeepEqual(got, NewSpellList()) {
			t.Errorf("DecodeSpells(%q) = %+v, want default", in, got)
		}
		if got := DecodeProficiencies(in); !reflect.DeepEqual(got, NewProficiencies()) {
			t.Errorf("DecodeProficiencies(%q) = %+v, want default", in, got)
		}
	}
}

func TestDecodeWrongShapes(t *testing.T) {
	if got := DecodeFeatures(`{"name":"x"}`); len(got) != 0 {
		t.Errorf("object features = %+v, want empty", got)
	}
	if got := DecodeAppearance(`["eyes","blue"]`); len(got) != 0 {
		t.Errorf("array appearance = %v, want empty", got)
	}
	if got := DecodeInventory(`[]`); !reflect.DeepEqual(got, NewInventory()) {
		t.Errorf("array inventory = %+v, want default", got)
	}
}

func TestDecodeAppearanceScalars(t *testing.T) {
	got := DecodeAppearance(`{"height":"180cm","Age":25,"tall":true,"notes":{"x":1},"":"blank","scar":null}`)
	want := Appearance{"height": "180cm", "age": "25", "tall": "true"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeAppearance() = %v, want %v", got, want)
	}
}

func TestDecodeInventory(t *testing.T) {
	got := DecodeInventory(`{"items":["Chain Mail","",3],"capital":{"gp":10,"cp":"50","sp":-2,"zz":9}}`)
	if !reflect.DeepEqual(got.Items, []string{"Chain Mail", "3"}) {
		t.Errorf("items = %q", got.Items)
	}
	want := map[Currency]int{Gold: 10, Copper: 50, Silver: 0, Electrum: 0, Platinum: 0}
	if !reflect.DeepEqual(got.Capital, want) {
		t.Errorf("capital = %v, want %v", got.Capital, want)
	}
}

func TestDecodeWeaponsLegacyScore(t *testing.T) {
	got := DecodeWeapons(`[{"name":"Longsword","damage":"1d8","type":"slashing"},{"name":"Bow","damage":"1d6","score":"dex","proficient":true},{"name":"  "}]`)
	want := []Weapon{
		{Name: "Longsword", Damage: "1d8", Type: "slashing"},
		{Name: "Bow", Damage: "1d6", Ability: rules.Dexterity, Proficient: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeWeapons() = %+v, want %+v", got, want)
	}
}

func TestDecodeProficienciesLegacySaves(t *testing.T) {
	got := DecodeProficiencies(`{"skills":["Acrobatics","athletics","Jumping"],"saves":["Strength","Constitution"],"other":["Common","Shields"]}`)
	if !reflect.DeepEqual(got.Skills, []rules.Skill{"Acrobatics", "Athletics"}) {
		t.Errorf("skills = %q", got.Skills)
	}
	if !reflect.DeepEqual(got.Saves, []rules.Ability{rules.Strength, rules.Constitution}) {
		t.Errorf("saves = %q", got.Saves)
	}
	if !reflect.DeepEqual(got.Other, []string{"Common", "Shields"}) {
		t.Errorf("other = %q", got.Other)
	}
}

func TestDecodeSpells(t *testing.T) {
	got := DecodeSpells(`{"slots":{"1":4,"2":"2","12":5},"list":["Shield","Fire Bolt"]}`)
	if got.Slots["1"] != 4 || got.Slots["2"] != 2 {
		t.Errorf("slots = %v", got.Slots)
	}
	if _, ok := got.Slots["12"]; ok {
		t.Error("unknown slot level kept")
	}
	if !reflect.DeepEqual(got.List, []string{"Shield", "Fire Bolt"}) {
		t.Errorf("list = %q", got.List)
	}
}

func TestCarrierRoundTrip(t *testing.T) {
	features := ParseFeatures("[Bravery]: Fear immunity\n\nJust a note")
	if got := DecodeFeatures(EncodeFeatures(features)); !reflect.DeepEqual(got, features) {
		t.Errorf("features round trip = %+v, want %+v", got, features)
	}

	appearance := ParseAppearance("Eyes: Blue\nHeight: 180cm")
	if got := DecodeAppearance(EncodeAppearance(appearance)); !reflect.DeepEqual(got, appearance) {
		t.Errorf("appearance round trip = %v, want %v", got, appearance)
	}

	inv := Inventory{Items: []string{"Rope"}, Capital: map[Currency]int{Gold: 5}}
	decoded := DecodeInventory(EncodeInventory(inv))
	if !reflect.DeepEqual(decoded.Items, inv.Items) || decoded.Coins(Gold) != 5 || decoded.Coins(Silver) != 0 {
		t.Errorf("inventory round trip = %+v", decoded)
	}

	weapons := []Weapon{
		{Name: "Longsword", Damage: "1d8", Ability: rules.Strength, Proficient: true},
		{Name: "Dart", Damage: "1d4"},
	}
	if got := DecodeWeapons(EncodeWeapons(weapons)); !reflect.DeepEqual(got, weapons) {
		t.Errorf("weapons round trip = %+v, want %+v", got, weapons)
	}

	p := NewProficiencies()
	p.SetSkill("Stealth", true)
	p.SetExpertise("Perception", true)
	p.SetSave(rules.Dexterity, true)
	p.Other = []string{"Thieves' Tools"}
	if got := DecodeProficiencies(EncodeProficiencies(p)); !reflect.DeepEqual(got, p) {
		t.Errorf("proficiencies round trip = %+v, want %+v", got, p)
	}

	sl := SpellList{Slots: map[string]int{"1": 2}, List: []string{"Sleep"}}
	decodedSpells := DecodeSpells(EncodeSpells(sl))
	if decodedSpells.Slots["1"] != 2 || !reflect.DeepEqual(decodedSpells.List, sl.List) {
		t.Errorf("spells round trip = %+v", decodedSpells)
	}
}
