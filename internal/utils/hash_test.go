package utils

import "testing"

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("name,day\nAna,18/10/2025\n"))
	b := Fingerprint([]byte("name,day\nAna,18/10/2025\n"))
	c := Fingerprint([]byte("name,day\nAna,19/10/2025\n"))

	if a != b {
		t.Fatalf("same body gave different fingerprints: %s vs %s", a, b)
	}
	if a == c {
		t.Fatalf("different bodies share fingerprint %s", a)
	}
	if got := Fingerprint(nil); got != "cbf29ce484222325" {
		t.Fatalf("expected FNV-1a offset basis for empty body, got %s", got)
	}
}
