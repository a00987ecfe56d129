package codec

import (
	"net/url"
	"strconv"
)

// MaxSpellLevel is the highest spell slot level on the sheet.
const MaxSpellLevel = 9

// SpellList is the known spells plus the slot count per spell level.
// Slot keys are "1" through "9".
type SpellList struct {
	Slots map[string]int `json:"slots"`
	List  []string       `json:"list"`
}

// NewSpellList returns an empty list with every slot level at zero.
func NewSpellList() SpellList {
	return SpellList{Slots: emptySlots(), List: []string{}}
}

// SpellSlotKeys returns the slot keys in level order.
func SpellSlotKeys() []string {
	keys := make([]string, MaxSpellLevel)
	for i := range keys {
		keys[i] = strconv.Itoa(i + 1)
	}
	return keys
}

// SpellSlotInput is the form field holding the slot count for level key.
func SpellSlotInput(key string) string {
	return "spell_slot_" + key
}

// ParseSpells keeps each trimmed non-blank line, in order.
func ParseSpells(text string) []string {
	spells := splitLines(text)
	if spells == nil {
		return []string{}
	}
	return spells
}

// RenderSpells writes one spell per line.
func RenderSpells(spells []string) string {
	return renderLines(spells)
}

// ReadSpellSlots reads spell_slot_1..spell_slot_9. Missing or unparseable
// inputs count as zero.
func ReadSpellSlots(form url.Values) map[string]int {
	slots := emptySlots()
	for _, key := range SpellSlotKeys() {
		slots[key] = ParseCount(form.Get(SpellSlotInput(key)))
	}
	return slots
}

func emptySlots() map[string]int {
	slots := make(map[string]int, MaxSpellLevel)
	for _, key := range SpellSlotKeys() {
		slots[key] = 0
	}
	return slots
}
