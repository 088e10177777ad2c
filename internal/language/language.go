// Package language holds the static registry of languages the gateway
// can transcribe, together with the script and provider code metadata
// the transcription pipeline needs.
package language

// Descriptor describes one supported language.
type Descriptor struct {
	// Code is the stable identifier clients send in requests ("hindi").
	Code string `json:"code"`
	// Name is the display name shown in a language picker.
	Name string `json:"name"`
	// Script is the writing system used for native output.
	Script string `json:"script"`
	// ProviderCode is the ISO 639-2 code the STT provider expects.
	ProviderCode string `json:"provider_code"`
}

// Latin marks languages whose provider output needs no conversion.
const Latin = "Latin"

// descriptors is the documented language set returned by /languages.
// Marathi shares Devanagari with Hindi; the order matches the picker.
var descriptors = []Descriptor{
	{Code: "hindi", Name: "Hindi (हिंदी)", Script: "Devanagari", ProviderCode: "hin"},
	{Code: "punjabi", Name: "Punjabi (ਪੰਜਾਬੀ)", Script: "Gurmukhi", ProviderCode: "pan"},
	{Code: "gujarati", Name: "Gujarati (ગુજરાતી)", Script: "Gujarati", ProviderCode: "guj"},
	{Code: "bengali", Name: "Bengali (বাংলা)", Script: "Bengali", ProviderCode: "ben"},
	{Code: "tamil", Name: "Tamil (தமிழ்)", Script: "Tamil", ProviderCode: "tam"},
	{Code: "telugu", Name: "Telugu (తెలుగు)", Script: "Telugu", ProviderCode: "tel"},
	{Code: "kannada", Name: "Kannada (ಕನ್ನಡ)", Script: "Kannada", ProviderCode: "kan"},
	{Code: "malayalam", Name: "Malayalam (മലയാളം)", Script: "Malayalam", ProviderCode: "mal"},
	{Code: "marathi", Name: "Marathi (मराठी)", Script: "Devanagari", ProviderCode: "mar"},
	{Code: "urdu", Name: "Urdu (اردو)", Script: "Urdu", ProviderCode: "urd"},
	{Code: "english", Name: "English", Script: Latin, ProviderCode: "eng"},
}

// extras are accepted on /transcribe but not advertised on /languages.
var extras = []Descriptor{
	{Code: "odia", Name: "Odia (ଓଡ଼ିଆ)", Script: "Oriya", ProviderCode: "ori"},
	{Code: "assamese", Name: "Assamese (অসমীয়া)", Script: "Bengali", ProviderCode: "asm"},
}

var byCode = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(descriptors)+len(extras))
	for _, d := range descriptors {
		m[d.Code] = d
	}
	for _, d := range extras {
		m[d.Code] = d
	}
	return m
}()

// All returns the documented language set, in display order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup resolves a language code, including the undocumented extras.
func Lookup(code string) (Descriptor, bool) {
	d, ok := byCode[code]
	return d, ok
}

// Count reports how many language codes the gateway accepts.
func Count() int {
	return len(byCode)
}

// Fallback is the degraded-mode subset a client uses when fetching
// /languages fails at startup. Intentionally smaller than the full
// set; keeping the demo usable matters more than completeness there.
func Fallback() []Descriptor {
	return []Descriptor{
		descriptors[0],  // hindi
		descriptors[3],  // bengali
		descriptors[4],  // tamil
		descriptors[10], // english
	}
}
