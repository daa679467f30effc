package voucher

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SV-K4MX-2NQ7-WRTC", "SV-K4MX-2NQ7-WRTC"},
		{"  sv-k4mx-2nq7-wrtc  ", "SV-K4MX-2NQ7-WRTC"},
		{"sv - k4mx - 2nq7 - wrtc", "SV-K4MX-2NQ7-WRTC"},
		{"SV\tK4MX", "SVK4MX"},
		{"   ", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHashCodeEquivalentForms(t *testing.T) {
	base := HashCode("SV-K4MX-2NQ7-WRTC")

	for _, form := range []string{
		"sv-k4mx-2nq7-wrtc",
		"  SV-K4MX-2NQ7-WRTC\n",
		"sv - K4MX -2nq7- wrtc",
	} {
		if got := HashCode(form); got != base {
			t.Errorf("HashCode(%q) = %q, want the canonical hash %q", form, got, base)
		}
	}

	if len(base) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(base))
	}
	if HashCode("SV-AAAA-BBBB-CCCC") == base {
		t.Fatal("different codes must not collide")
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode failed: %v", err)
		}

		parts := strings.Split(code, "-")
		if len(parts) != 4 || parts[0] != "SV" {
			t.Fatalf("unexpected code shape: %q", code)
		}
		for _, group := range parts[1:] {
			if len(group) != 4 {
				t.Fatalf("unexpected group length in %q", code)
			}
			for _, r := range group {
				if !strings.ContainsRune(codeAlphabet, r) {
					t.Fatalf("code %q contains %q outside the alphabet", code, r)
				}
			}
		}

		// Normalization must be a no-op on freshly generated codes.
		if Normalize(code) != code {
			t.Fatalf("generated code %q is not in canonical form", code)
		}
		seen[code] = true
	}

	if len(seen) < 199 {
		t.Fatalf("expected essentially no collisions in 200 codes, got %d unique", len(seen))
	}
}

func TestCodeAlphabetExcludesAmbiguousGlyphs(t *testing.T) {
	for _, r := range "01IO5S9" {
		if strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("alphabet must not contain %q", r)
		}
	}
}
