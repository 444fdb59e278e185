package hash

import (
	"errors"
	"testing"
)

func TestHashers(t *testing.T) {
	tests := []struct {
		name string
		h    Hash
	}{
		{name: "Bcrypt", h: NewBcrypt(4, "pepper")},
		{name: "Argon2id", h: NewArgon2id("pepper")},
		{name: "HMACSHA256", h: NewHMACSHA256("secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			hashed, err := tt.h.Hash("482913")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}

			// Act & Assert
			if !tt.h.Verify(string(hashed), "482913") {
				t.Fatal("expected match")
			}
			if tt.h.Verify(string(hashed), "482914") {
				t.Fatal("unexpected match")
			}
		})
	}
}

func TestHMACSHA256_Deterministic(t *testing.T) {
	// Arrange
	h := NewHMACSHA256("secret")

	// Act
	a, _ := h.Hash("000001")
	b, _ := h.Hash("000001")
	other, _ := NewHMACSHA256("other").Hash("000001")

	// Assert
	if string(a) != string(b) {
		t.Fatal("digest must be deterministic")
	}
	if string(a) == string(other) {
		t.Fatal("digest must depend on the secret")
	}
	if len(a) != 64 {
		t.Fatalf("hex digest length = %d", len(a))
	}
}

func TestNewPassword(t *testing.T) {
	if _, err := NewPassword("argon2id", 0, ""); err != nil {
		t.Fatalf("argon2id: %v", err)
	}
	if _, err := NewPassword("", 0, ""); err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, err := NewPassword("md5", 0, ""); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}
