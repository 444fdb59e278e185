package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
)

func newSigner(t *testing.T, clk *clock.Frozen) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "otcgate",
		Audiences: []string{"otcgate-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("NewHS512: %v", err)
	}
	return s
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	// Arrange
	clk := clock.NewFrozen(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	s := newSigner(t, clk)

	// Act
	token, err := s.Generate(42, "+14155550100")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	claims, err := s.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AccountID != 42 || claims.Phone != "+14155550100" || claims.Subject != "42" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestSymmetric_Expired(t *testing.T) {
	// Arrange
	clk := clock.NewFrozen(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	s := newSigner(t, clk)
	token, err := s.Generate(7, "+14155550100")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Act
	clk.Advance(2 * time.Hour)
	_, err = s.Verify(token)

	// Assert
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestNewHS512_ShortKey(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short")}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}
