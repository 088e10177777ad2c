package language

import "testing"

func TestAllHasUniqueCompleteDescriptors(t *testing.T) {
	all := All()
	if len(all) != 11 {
		t.Fatalf("got %d languages, want 11", len(all))
	}
	seen := map[string]bool{}
	for _, d := range all {
		if d.Code == "" || d.Name == "" || d.Script == "" || d.ProviderCode == "" {
			t.Errorf("incomplete descriptor: %+v", d)
		}
		if seen[d.Code] {
			t.Errorf("duplicate code %q", d.Code)
		}
		seen[d.Code] = true
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("hindi")
	if !ok {
		t.Fatalf("hindi not found")
	}
	if d.Script != "Devanagari" || d.ProviderCode != "hin" {
		t.Errorf("descriptor = %+v", d)
	}

	if _, ok := Lookup("klingon"); ok {
		t.Errorf("unknown code resolved")
	}
}

func TestLookupIncludesExtras(t *testing.T) {
	// Accepted on transcription requests, absent from All().
	for _, code := range []string{"odia", "assamese"} {
		if _, ok := Lookup(code); !ok {
			t.Errorf("extra %q not accepted", code)
		}
	}
	for _, d := range All() {
		if d.Code == "odia" || d.Code == "assamese" {
			t.Errorf("extra %q advertised", d.Code)
		}
	}
}

func TestMarathiSharesDevanagari(t *testing.T) {
	hindi, _ := Lookup("hindi")
	marathi, _ := Lookup("marathi")
	if hindi.Script != marathi.Script {
		t.Errorf("hindi %q vs marathi %q", hindi.Script, marathi.Script)
	}
}

func TestFallbackIsUsableSubset(t *testing.T) {
	fallback := Fallback()
	if len(fallback) == 0 || len(fallback) >= len(All()) {
		t.Fatalf("fallback size %d", len(fallback))
	}
	for _, d := range fallback {
		if _, ok := Lookup(d.Code); !ok {
			t.Errorf("fallback %q not in registry", d.Code)
		}
	}
}
