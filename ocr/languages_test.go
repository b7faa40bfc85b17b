package ocr

import "testing"

func TestLanguageCatalogue(t *testing.T) {
	langs := Languages()
	if len(langs) != 13 {
		t.Fatalf("expected 13 languages, got %d", len(langs))
	}
	if langs[0].Code != DefaultLanguage || langs[0].Name != "English" {
		t.Fatalf("first language = %+v, want eng/English", langs[0])
	}
	for _, l := range langs {
		if !IsSupported(l.Code) {
			t.Fatalf("catalogue code %q not reported as supported", l.Code)
		}
	}
	if IsSupported("elvish") {
		t.Fatalf("unknown code reported as supported")
	}
}

func TestLanguagesReturnsCopy(t *testing.T) {
	langs := Languages()
	langs[0] = Language{Code: "xxx", Name: "Broken"}
	if Languages()[0].Code != DefaultLanguage {
		t.Fatalf("catalogue was mutated through the returned slice")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("chi_sim"); got != "Chinese (Simplified)" {
		t.Fatalf("DisplayName(chi_sim) = %q", got)
	}
	if got := DisplayName("xyz"); got != "xyz" {
		t.Fatalf("DisplayName(xyz) = %q, want pass-through", got)
	}
}
