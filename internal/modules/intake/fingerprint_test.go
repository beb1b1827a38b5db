package intake

import (
	"strings"
	"testing"
)

func TestFingerprinter(t *testing.T) {
	plain, err := NewFingerprinter("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if plain.Keyed() || plain.Apply("abc") != "abc" {
		t.Fatalf("unkeyed fingerprinter must pass values through")
	}

	keyed, err := NewFingerprinter("secret-key")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	a := keyed.Apply("abc")
	if a == "abc" || len(a) != 64 {
		t.Fatalf("unexpected keyed value %q", a)
	}
	if keyed.Apply("abc") != a {
		t.Fatalf("keyed fingerprint must be deterministic")
	}
	if keyed.Apply("abd") == a {
		t.Fatalf("distinct inputs collided")
	}

	other, _ := NewFingerprinter("another-key")
	if other.Apply("abc") == a {
		t.Fatalf("distinct keys must produce distinct fingerprints")
	}

	if _, err := NewFingerprinter(strings.Repeat("k", 65)); err == nil {
		t.Fatalf("expected error for oversized key")
	}
}
