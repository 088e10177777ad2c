// Package transliterate converts Latin ITRANS text into native Indic
// scripts. The Brahmic blocks in Unicode are code-point aligned, so a
// single ITRANS-to-offset table plus a per-script block base covers
// every supported script; irregular scripts patch the few letters they
// lack through override maps.
package transliterate

import (
	"fmt"
	"strings"
)

// Scheme maps ITRANS tokens onto one target script.
type Scheme struct {
	name string
	base rune
	// overrides rewrites an ITRANS token to another token before
	// lookup, for scripts missing letters from the common block.
	overrides map[string]string
}

// Name returns the script name this scheme produces.
func (s *Scheme) Name() string { return s.name }

// maxToken is the longest ITRANS token in the tables ("RRi", "kSh").
const maxToken = 3

// Transliterate converts ITRANS input to the scheme's script.
// Characters outside the ITRANS tables pass through unchanged.
func (s *Scheme) Transliterate(text string) string {
	var out strings.Builder
	out.Grow(len(text) * 3)

	tokens := tokenize(text)
	pending := false // a consonant awaiting its vowel

	flush := func() {
		if pending {
			out.WriteRune(s.base + offVirama)
			pending = false
		}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if exp, ok := composites[tok]; ok {
			// Splice conjuncts like kSh in place of the token.
			spliced := make([]string, 0, len(tokens)+len(exp)-1)
			spliced = append(spliced, tokens[:i]...)
			spliced = append(spliced, exp...)
			spliced = append(spliced, tokens[i+1:]...)
			tokens = spliced
			tok = tokens[i]
		}
		if alias, ok := s.overrides[tok]; ok {
			tok = alias
		}

		if off, ok := consonantOffsets[tok]; ok {
			if pending {
				out.WriteRune(s.base + offVirama)
			}
			out.WriteRune(s.base + off)
			pending = true
			continue
		}
		if v, ok := vowelOffsets[tok]; ok {
			if pending {
				if v.matra != 0 {
					out.WriteRune(s.base + v.matra)
				}
				pending = false
			} else {
				out.WriteRune(s.base + v.independent)
			}
			continue
		}
		if off, ok := markOffsets[tok]; ok {
			flush()
			out.WriteRune(s.base + off)
			continue
		}
		if len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9' {
			flush()
			out.WriteRune(s.base + offDigitZero + rune(tok[0]-'0'))
			continue
		}
		if lit, ok := literals[tok]; ok {
			flush()
			out.WriteString(lit)
			continue
		}

		flush()
		out.WriteString(tok)
	}
	flush()

	return out.String()
}

// tokenize splits input greedily, preferring the longest known token.
func tokenize(text string) []string {
	var tokens []string
	runes := []rune(text)
	for i := 0; i < len(runes); {
		matched := false
		for n := maxToken; n >= 1; n-- {
			if i+n > len(runes) {
				continue
			}
			cand := string(runes[i : i+n])
			if knownTokens[cand] {
				tokens = append(tokens, cand)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			tokens = append(tokens, string(runes[i]))
			i++
		}
	}
	return tokens
}

// ToScript converts ITRANS text into the named script. Scripts without
// a registered scheme (Urdu, Latin) yield the input unchanged along
// with an error the caller may treat as a soft failure.
func ToScript(text, script string) (string, error) {
	scheme, ok := schemes[strings.ToLower(script)]
	if !ok {
		return text, fmt.Errorf("no transliteration scheme for script %q", script)
	}
	return scheme.Transliterate(text), nil
}

// Supported reports whether a scheme exists for the named script.
func Supported(script string) bool {
	_, ok := schemes[strings.ToLower(script)]
	return ok
}
