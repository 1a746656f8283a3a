package util

import "testing"

func TestHashUserKeyStableHex(t *testing.T) {
	id := "guest:3f8e0a52-4c1d-4f6e-9a0b-2f1c5d7e9b11"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
}

func TestHashUserKeySeparatesOwners(t *testing.T) {
	if HashUserKey("guest:abc") == HashUserKey("108256341") {
		t.Fatalf("expected distinct owners to hash differently")
	}
}
