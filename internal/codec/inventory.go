package codec

import "net/url"

// Currency is a coin denomination code.
type Currency string

const (
	Copper   Currency = "cp"
	Silver   Currency = "sp"
	Electrum Currency = "ep"
	Gold     Currency = "gp"
	Platinum Currency = "pp"
)

// currencies is the order the money block is laid out in.
var currencies = [...]Currency{Gold, Silver, Copper, Platinum, Electrum}

// Currencies returns every denomination in display order.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies[:])
	return out
}

// Label is the upper-case code shown next to the coin input.
func (c Currency) Label() string {
	switch c {
	case Copper:
		return "CP"
	case Silver:
		return "SP"
	case Electrum:
		return "EP"
	case Gold:
		return "GP"
	case Platinum:
		return "PP"
	}
	return string(c)
}

// MoneyInput is the form field holding the coin count for c.
func MoneyInput(c Currency) string {
	return "money_" + string(c)
}

// Inventory is the carried equipment list and coin purse.
type Inventory struct {
	Items   []string         `json:"items"`
	Capital map[Currency]int `json:"capital"`
}

// NewInventory returns an empty inventory with every denomination at zero.
func NewInventory() Inventory {
	return Inventory{Items: []string{}, Capital: emptyCapital()}
}

// Coins returns the amount held in c. Unknown codes hold nothing.
func (inv Inventory) Coins(c Currency) int {
	return inv.Capital[c]
}

// ParseItems keeps one item per non-blank line.
func ParseItems(text string) []string {
	items := splitLines(text)
	if items == nil {
		return []string{}
	}
	return items
}

// RenderItems writes one item per line.
func RenderItems(items []string) string {
	return renderLines(items)
}

// ReadCapital reads money_<code> for every denomination. Blank or
// unparseable inputs are zero and negative amounts clamp to zero.
func ReadCapital(form url.Values) map[Currency]int {
	capital := emptyCapital()
	for _, c := range currencies {
		capital[c] = ParseCount(form.Get(MoneyInput(c)))
	}
	return capital
}

func emptyCapital() map[Currency]int {
	capital := make(map[Currency]int, len(currencies))
	for _, c := range currencies {
		capital[c] = 0
	}
	return capital
}
