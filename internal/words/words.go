// Package words spells out amounts in natural language for fiscal documents
// (« arrêtée la présente facture à la somme de ... »).
//
// The irregularities of a language are a closed table, not a formula, so the
// whole locale lives in a Locale value and another language can be substituted
// without touching the algorithm.
package words

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Locale holds every language-specific table and quirk flag.
type Locale struct {
	Zero  string
	Minus string
	Ones  [10]string // 0..9
	Teens [10]string // 10..19, each a distinct word or fixed compound
	// Tens by leading digit 2..9. An empty entry means the range has no word
	// of its own and composes on the previous base plus a teen remainder
	// (French 70–79 on soixante, 90–99 on quatre-vingt).
	Tens    [10]string
	Hundred string
	// HundredPlural: the hundred word takes a plural mark when multiplied and
	// nothing follows it (deux cents, but deux cent trois / deux cent mille).
	HundredPlural string
	// EightyPlural: plural mark for the 80 base under the same "nothing
	// follows" rule (quatre-vingts, but quatre-vingt-un / quatre-vingt mille).
	EightyPlural string
	// AndUnit joins a tens word to a trailing 1 (vingt et un) and the 70s base
	// to 11 (soixante et onze). Not applied to the 80s.
	AndUnit string
	// Scales by base-1000 chunk index: "", thousand, million, ...
	Scales []string
	// ScalePluralMin is the first scale index whose word pluralizes when its
	// chunk exceeds 1. French: 2 (millions, milliards) — mille is invariable.
	ScalePluralMin int
	// OmitOneScale is the scale index whose chunk value 1 is left unspoken
	// (mille, never un mille). -1 when the locale has no such rule.
	OmitOneScale int
}

// French is the reference locale.
var French = Locale{
	Zero:  "zéro",
	Minus: "moins",
	Ones:  [10]string{"", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf"},
	Teens: [10]string{"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
		"dix-sept", "dix-huit", "dix-neuf"},
	Tens:           [10]string{"", "", "vingt", "trente", "quarante", "cinquante", "soixante", "", "quatre-vingt", ""},
	Hundred:        "cent",
	HundredPlural:  "s",
	EightyPlural:   "s",
	AndUnit:        "et",
	Scales:         []string{"", "mille", "million", "milliard", "billion"},
	ScalePluralMin: 2,
	OmitOneScale:   1,
}

// ToWords spells n in the French locale. It never panics; numbers beyond the
// largest known scale word degrade to their decimal digits.
func ToWords(n int64) string { return French.ToWords(n) }

// ToWords spells n in this locale.
func (loc Locale) ToWords(n int64) string {
	if n == 0 {
		return loc.Zero
	}
	if n < 0 {
		return loc.Minus + " " + loc.ToWords(-n)
	}

	// Chunk base 1000, least significant first.
	var chunks []int
	for v := n; v > 0; v /= 1000 {
		chunks = append(chunks, int(v%1000))
	}
	if len(chunks) > len(loc.Scales) {
		return strconv.FormatInt(n, 10)
	}

	var parts []string
	for idx := len(chunks) - 1; idx >= 0; idx-- {
		chunk := chunks[idx]
		if chunk == 0 {
			continue
		}
		var piece string
		switch {
		case idx == loc.OmitOneScale && chunk == 1:
			piece = loc.Scales[idx]
		case idx > 0:
			scale := loc.Scales[idx]
			if idx >= loc.ScalePluralMin && chunk > 1 {
				scale += "s"
			}
			piece = loc.chunkWords(chunk, true) + " " + scale
		default:
			piece = loc.chunkWords(chunk, false)
		}
		parts = append(parts, piece)
	}
	return strings.Join(parts, " ")
}

// chunkWords renders 1..999. followedByScale suppresses the plural marks that
// French drops before a scale word.
func (loc Locale) chunkWords(n int, followedByScale bool) string {
	var parts []string
	if h := n / 100; h > 0 {
		switch {
		case h == 1:
			parts = append(parts, loc.Hundred)
		case n%100 == 0 && !followedByScale:
			parts = append(parts, loc.Ones[h]+" "+loc.Hundred+loc.HundredPlural)
		default:
			parts = append(parts, loc.Ones[h]+" "+loc.Hundred)
		}
	}
	if r := n % 100; r > 0 {
		parts = append(parts, loc.tensWords(r, followedByScale))
	}
	return strings.Join(parts, " ")
}

func (loc Locale) tensWords(r int, followedByScale bool) string {
	switch {
	case r < 10:
		return loc.Ones[r]
	case r < 20:
		return loc.Teens[r-10]
	}
	t, u := r/10, r%10
	if loc.Tens[t] == "" {
		// Composed range: previous base plus teen remainder (71 gets the connector).
		base := loc.Tens[t-1]
		rem := r - (t-1)*10
		if rem == 11 && t != 9 && loc.AndUnit != "" {
			return base + " " + loc.AndUnit + " " + loc.Teens[1]
		}
		return base + "-" + loc.Teens[rem-10]
	}
	switch {
	case u == 0:
		if t == 8 && !followedByScale {
			return loc.Tens[t] + loc.EightyPlural
		}
		return loc.Tens[t]
	case u == 1 && t != 8 && loc.AndUnit != "":
		return loc.Tens[t] + " " + loc.AndUnit + " " + loc.Ones[1]
	default:
		return loc.Tens[t] + "-" + loc.Ones[u]
	}
}

// AmountInWords spells a monetary amount: units, currency word, then cents
// when non-zero ("soixante dinars et cinquante centimes").
func AmountInWords(loc Locale, amount decimal.Decimal, unitWord, centWord string) string {
	rounded := amount.Round(2)
	units := rounded.IntPart()
	cents := rounded.Sub(decimal.NewFromInt(units)).Mul(decimal.NewFromInt(100)).IntPart()
	if cents < 0 {
		cents = -cents
	}
	s := loc.ToWords(units) + " " + unitWord
	if cents > 0 {
		s += " " + loc.AndUnit + " " + loc.ToWords(cents) + " " + centWord
	}
	return s
}
