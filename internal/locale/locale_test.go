package locale

import (
	"testing"

	"golang.org/x/text/language"

	"tsc/internal/diag"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		value    string
		wantCode diag.Code
		wantCat  bool
	}{
		{"en", 0, false},
		{"en-US", 0, false},
		{"de", 0, true},
		{"de_DE", 0, true},
		{"ES", 0, true},
		{"ja-jp", 0, true},
		{"not a locale", 6048, false},
		{"en-us-x", 6048, false},
		{"fr", 6049, false},
	}
	for _, tt := range tests {
		cat, errs := Validate(tt.value)
		if tt.wantCode != 0 {
			if len(errs) != 1 || errs[0].Code != tt.wantCode {
				t.Errorf("Validate(%q) errors = %v, want %d", tt.value, errs, tt.wantCode)
			}
			continue
		}
		if len(errs) != 0 {
			t.Errorf("Validate(%q) unexpected errors: %s", tt.value, errs[0].Text())
			continue
		}
		if (cat != nil) != tt.wantCat {
			t.Errorf("Validate(%q) catalog = %v, want present=%v", tt.value, cat, tt.wantCat)
		}
	}
}

func TestCatalogTranslatesDiagnostic(t *testing.T) {
	cat, err := Load(language.German)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() == 0 {
		t.Fatal("empty catalog")
	}
	d := diag.NewGlobal(diag.FileNotFound, "a.ts")
	if got := d.Localized(cat); got != `Die Datei "a.ts" wurde nicht gefunden.` {
		t.Fatalf("Localized = %q", got)
	}
	var none *Catalog
	if got := d.Localized(none); got != "File 'a.ts' not found." {
		t.Fatalf("nil catalog = %q", got)
	}
}

func TestEveryCatalogLoads(t *testing.T) {
	for _, tag := range Supported() {
		if tag == language.English {
			continue
		}
		cat, err := Load(tag)
		if err != nil {
			t.Fatalf("Load(%s): %v", tag, err)
		}
		for code := range cat.messages {
			if _, ok := diag.Lookup(code); !ok {
				t.Errorf("%s: translation for unknown code %d", tag, code)
			}
		}
	}
}
