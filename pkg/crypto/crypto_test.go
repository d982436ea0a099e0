package crypto

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if !VerifyPassword(hash, "secret") {
		t.Fatal("expected password verification to succeed")
	}

	if VerifyPassword(hash, "incorrect") {
		t.Fatal("expected password verification to fail")
	}
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	second, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	if first == "" || first == second {
		t.Fatal("expected distinct non-empty tokens")
	}
}
