// Package sheet keeps the live editing view and the submit path of a
// character sheet in agreement. Both paths build a Snapshot and hand it to
// rules.Compute, so a number shown while typing is the number shown after
// saving.
package sheet

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/DENFSA/CharkLi/internal/codec"
	"github.com/DENFSA/CharkLi/internal/rules"
)

// NewID is the form id of a character that has not been saved yet.
const NewID int64 = -1

// HP is current, maximum and temporary hit points.
type HP struct {
	Current int
	Max     int
	Temp    int
}

// Snapshot is one character as stored. Derived values are never part of it;
// call Derive to get them.
type Snapshot struct {
	ID          int64
	OwnerID     int64
	Name        string
	Class       string
	Level       int
	Race        string
	Background  string
	Alignment   string
	Scores      rules.Scores
	AC          int
	Speed       int
	HP          HP
	Inspiration bool

	PersonalityTraits string
	Ideals            string
	Bonds             string
	Flaws             string
	History           string

	ImageURL  string
	CreatedAt time.Time

	Proficiencies codec.Proficiencies
	Inventory     codec.Inventory
	Features      []codec.Feature
	Spells        codec.SpellList
	Weapons       []codec.Weapon
	Appearance    codec.Appearance
}

// Summary is the row shown on the character list.
type Summary struct {
	ID        int64
	Name      string
	Class     string
	Level     int
	ImageURL  string
	CreatedAt time.Time
}

// NewSnapshot returns the blank sheet shown for /character/new.
func NewSnapshot(ownerID int64) Snapshot {
	return Snapshot{
		ID:            NewID,
		OwnerID:       ownerID,
		Name:          "New Hero",
		Level:         1,
		Alignment:     "N",
		Scores:        rules.DefaultScores(),
		AC:            10,
		Speed:         30,
		HP:            HP{Current: 10, Max: 10},
		Proficiencies: codec.NewProficiencies(),
		Inventory:     codec.NewInventory(),
		Features:      []codec.Feature{},
		Spells:        codec.NewSpellList(),
		Weapons:       []codec.Weapon{},
		Appearance:    codec.Appearance{},
	}
}

// DemoSnapshot returns the starter character every new account receives.
func DemoSnapshot(ownerID int64, email string) Snapshot {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		local = "Adventurer"
	}

	s := NewSnapshot(ownerID)
	s.Name = local + "'s Hero"
	s.Class = "Fighter"
	s.Race = "Human"
	s.Background = "Soldier"
	s.Alignment = "Neutral Good"
	s.Scores = rules.Scores{Str: 15, Dex: 14, Con: 13, Int: 10, Wis: 12, Cha: 8}
	s.AC = 17
	s.HP = HP{Current: 11, Max: 11}
	s.ImageURL = "https://i.pravatar.cc/300?u=" + local

	s.Proficiencies.Skills = []rules.Skill{"Acrobatics", "Athletics"}
	s.Proficiencies.Saves = []rules.Ability{rules.Strength, rules.Constitution}
	s.Proficiencies.Other = []string{
		"Common", "Dwarven", "All armor", "Shields", "Simple Weapons", "Martial Weapons",
	}
	s.Inventory.Items = []string{"Chain Mail", "Shield", "Longsword", "Explorer's Pack"}
	s.Inventory.Capital[codec.Copper] = 50
	s.Inventory.Capital[codec.Gold] = 10
	s.Features = []codec.Feature{
		{Name: "Fighting Style", Description: "Defense: +1 AC while wearing armor."},
		{Name: "Second Wind", Description: "Bonus action: regain 1d10 + fighter level HP."},
	}
	s.Weapons = []codec.Weapon{
		{Name: "Longsword", Damage: "1d8", Ability: rules.Strength, Proficient: true, Type: "slashing"},
	}
	s.Appearance = codec.Appearance{
		"height": "180cm",
		"weight": "85kg",
		"eyes":   "Blue",
		"hair":   "Brown",
		"age":    "25",
		"skin":   "Fair",
	}
	return s
}

// IsNew reports whether the snapshot has never been saved.
func (s Snapshot) IsNew() bool {
	return s.ID == NewID
}

// RulesInput collects what the derived values depend on.
func (s Snapshot) RulesInput() rules.Input {
	in := rules.Input{
		Scores:     s.Scores,
		Level:      s.Level,
		Saves:      s.Proficiencies.SaveSet(),
		SkillTiers: s.Proficiencies.SkillTiers(),
		Weapons:    make([]rules.WeaponInput, len(s.Weapons)),
	}
	for i, w := range s.Weapons {
		in.Weapons[i] = rules.WeaponInput{Ability: w.Ability, Proficient: w.Proficient}
	}
	return in
}

// Derive computes every derived value for the snapshot.
func (s Snapshot) Derive() rules.Derived {
	return rules.Compute(s.RulesInput())
}

// clone copies every slice and map of s.
func (s Snapshot) clone() Snapshot {
	c := s
	c.Weapons = slices.Clone(s.Weapons)
	c.Features = slices.Clone(s.Features)
	c.Inventory.Items = slices.Clone(s.Inventory.Items)
	c.Inventory.Capital = maps.Clone(s.Inventory.Capital)
	c.Spells.List = slices.Clone(s.Spells.List)
	c.Spells.Slots = maps.Clone(s.Spells.Slots)
	c.Appearance = maps.Clone(s.Appearance)
	c.Proficiencies.Skills = slices.Clone(s.Proficiencies.Skills)
	c.Proficiencies.Expertise = slices.Clone(s.Proficiencies.Expertise)
	c.Proficiencies.Saves = slices.Clone(s.Proficiencies.Saves)
	c.Proficiencies.Other = slices.Clone(s.Proficiencies.Other)
	return c
}
