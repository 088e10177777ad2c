package transliterate

// Offsets into a Brahmic Unicode block. The same table serves every
// supported script because the blocks are mutually aligned; see the
// Devanagari block (U+0900) for the reference layout.
const (
	offCandrabindu rune = 0x01
	offAnusvara    rune = 0x02
	offVisarga     rune = 0x03
	offVirama      rune = 0x4D
	offAvagraha    rune = 0x3D
	offDigitZero   rune = 0x66
)

type vowelPair struct {
	independent rune
	matra       rune // 0 for the inherent "a"
}

var vowelOffsets = map[string]vowelPair{
	"a":   {0x05, 0},
	"A":   {0x06, 0x3E},
	"aa":  {0x06, 0x3E},
	"i":   {0x07, 0x3F},
	"I":   {0x08, 0x40},
	"ii":  {0x08, 0x40},
	"u":   {0x09, 0x41},
	"U":   {0x0A, 0x42},
	"uu":  {0x0A, 0x42},
	"RRi": {0x0B, 0x43},
	"R^i": {0x0B, 0x43},
	"RRI": {0x60, 0x44},
	"R^I": {0x60, 0x44},
	"LLi": {0x0C, 0x62},
	"L^i": {0x0C, 0x62},
	"LLI": {0x61, 0x63},
	"L^I": {0x61, 0x63},
	"e":   {0x0F, 0x47},
	"ai":  {0x10, 0x48},
	"o":   {0x13, 0x4B},
	"au":  {0x14, 0x4C},
}

var consonantOffsets = map[string]rune{
	"k": 0x15, "kh": 0x16, "g": 0x17, "gh": 0x18, "~N": 0x19, "N^": 0x19,
	"ch": 0x1A, "Ch": 0x1B, "chh": 0x1B, "j": 0x1C, "jh": 0x1D, "~n": 0x1E, "JN": 0x1E,
	"T": 0x1F, "Th": 0x20, "D": 0x21, "Dh": 0x22, "N": 0x23,
	"t": 0x24, "th": 0x25, "d": 0x26, "dh": 0x27, "n": 0x28,
	"p": 0x2A, "ph": 0x2B, "b": 0x2C, "bh": 0x2D, "m": 0x2E,
	"y": 0x2F, "r": 0x30, "l": 0x32, "L": 0x33, "ld": 0x33,
	"v": 0x35, "w": 0x35, "sh": 0x36, "Sh": 0x37, "shh": 0x37, "s": 0x38, "h": 0x39,
	// Nukta consonants; scripts without them override to base letters.
	"q": 0x58, "K": 0x59, "G": 0x5A, "z": 0x5B, "J": 0x5B,
	".D": 0x5C, ".Dh": 0x5D, "f": 0x5E,
}

var markOffsets = map[string]rune{
	"M":  offAnusvara,
	".m": offAnusvara,
	".n": offAnusvara,
	"H":  offVisarga,
	".N": offCandrabindu,
	".a": offAvagraha,
	".h": offVirama,
}

// composites expand to consonant sequences joined by viramas.
var composites = map[string][]string{
	"x":   {"k", "Sh"},
	"kSh": {"k", "Sh"},
	"GY":  {"j", "~n"},
	"j~n": {"j", "~n"},
}

// literals are absolute code points shared across the Indic blocks.
var literals = map[string]string{
	"|":  "।",
	"||": "॥",
}

var knownTokens = func() map[string]bool {
	m := make(map[string]bool, 96)
	for t := range vowelOffsets {
		m[t] = true
	}
	for t := range consonantOffsets {
		m[t] = true
	}
	for t := range markOffsets {
		m[t] = true
	}
	for t := range composites {
		m[t] = true
	}
	for t := range literals {
		m[t] = true
	}
	m["||"] = true
	return m
}()

// nuktaFallbacks serves scripts lacking the Perso-Arabic loan letters.
var nuktaFallbacks = map[string]string{
	"q": "k", "K": "kh", "G": "g", "z": "j", "J": "j",
	".D": "D", ".Dh": "Dh", "f": "ph",
}

// tamilOverrides collapses aspirated and voiced stops onto the letters
// Tamil actually has, matching conventional Tamil transcription.
var tamilOverrides = map[string]string{
	"kh": "k", "g": "k", "gh": "k",
	"Ch": "ch", "chh": "ch", "jh": "j",
	"Th": "T", "D": "T", "Dh": "T",
	"th": "t", "d": "t", "dh": "t",
	"ph": "p", "b": "p", "bh": "p",
	"q": "k", "K": "k", "G": "k",
	"z": "j", "J": "j",
	".D": "T", ".Dh": "T", "f": "p",
}

func withNuktaFallbacks(extra map[string]string) map[string]string {
	m := make(map[string]string, len(nuktaFallbacks)+len(extra))
	for k, v := range nuktaFallbacks {
		m[k] = v
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// schemes registers every script with a native conversion. Urdu is
// deliberately absent: its Perso-Arabic script does not map through
// the Brahmic blocks, so Urdu text passes through unconverted.
var schemes = map[string]*Scheme{
	"devanagari": {name: "devanagari", base: 0x0900},
	"bengali":    {name: "bengali", base: 0x0980, overrides: withNuktaFallbacks(map[string]string{"v": "b", "w": "b"})},
	"gurmukhi":   {name: "gurmukhi", base: 0x0A00, overrides: map[string]string{"q": "k", ".D": "D", ".Dh": "Dh"}},
	"gujarati":   {name: "gujarati", base: 0x0A80, overrides: nuktaFallbacks},
	"oriya":      {name: "oriya", base: 0x0B00, overrides: withNuktaFallbacks(map[string]string{"v": "b", "w": "b"})},
	"tamil":      {name: "tamil", base: 0x0B80, overrides: tamilOverrides},
	"telugu":     {name: "telugu", base: 0x0C00, overrides: nuktaFallbacks},
	"kannada":    {name: "kannada", base: 0x0C80, overrides: nuktaFallbacks},
	"malayalam":  {name: "malayalam", base: 0x0D00, overrides: nuktaFallbacks},
}
