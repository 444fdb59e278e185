package usecase

import "testing"

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{}, 200)

	for range 200 {
		// Act
		code, err := GenerateCode()

		// Assert
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if !isCodeFormat(code) {
			t.Fatalf("code %q is not six digits", code)
		}
		seen[code] = struct{}{}
	}

	if len(seen) < 190 {
		t.Fatalf("expected mostly distinct codes, got %d of 200", len(seen))
	}
}
