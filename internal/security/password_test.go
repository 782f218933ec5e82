package security

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	salt, errSalt := NewSalt()
	if errSalt != nil {
		t.Fatalf("NewSalt: %v", errSalt)
	}

	digest, errHash := HashPassword("correct horse battery staple", salt)
	if errHash != nil {
		t.Fatalf("HashPassword: %v", errHash)
	}

	if !VerifyPassword("correct horse battery staple", salt, digest) {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword("wrong password", salt, digest) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	salt, errSalt := NewSalt()
	if errSalt != nil {
		t.Fatalf("NewSalt: %v", errSalt)
	}

	first, errFirst := HashPassword("secret", salt)
	if errFirst != nil {
		t.Fatalf("HashPassword: %v", errFirst)
	}
	second, errSecond := HashPassword("secret", salt)
	if errSecond != nil {
		t.Fatalf("HashPassword: %v", errSecond)
	}
	if first != second {
		t.Fatalf("expected identical digests for same password and salt")
	}
}

func TestHashPassword_SaltChangesDigest(t *testing.T) {
	saltA, errA := NewSalt()
	if errA != nil {
		t.Fatalf("NewSalt: %v", errA)
	}
	saltB, errB := NewSalt()
	if errB != nil {
		t.Fatalf("NewSalt: %v", errB)
	}
	if saltA == saltB {
		t.Fatalf("expected distinct salts")
	}

	digestA, _ := HashPassword("secret", saltA)
	digestB, _ := HashPassword("secret", saltB)
	if digestA == digestB {
		t.Fatalf("expected distinct digests for distinct salts")
	}
}

func TestVerifyPassword_MalformedInput(t *testing.T) {
	if VerifyPassword("secret", "not-hex!", "00ff") {
		t.Fatalf("expected malformed salt to fail verification")
	}

	salt, errSalt := NewSalt()
	if errSalt != nil {
		t.Fatalf("NewSalt: %v", errSalt)
	}
	if VerifyPassword("secret", salt, "zz-not-hex") {
		t.Fatalf("expected malformed digest to fail verification")
	}
	if VerifyPassword("secret", salt, "") {
		t.Fatalf("expected empty digest to fail verification")
	}
}
