package token

import "testing"

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty tokens, got %q and %q", a, b)
	}
}

func TestHashSHA256_Deterministic(t *testing.T) {
	if HashSHA256("abc") != HashSHA256("abc") {
		t.Fatal("expected stable hash for the same input")
	}
	if HashSHA256("abc") == HashSHA256("abd") {
		t.Fatal("expected different hashes for different inputs")
	}
	if len(HashSHA256("abc")) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(HashSHA256("abc")))
	}
}
