package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"Code":       "code",
		"AttemptID":  "attempt_id",
		"HTTPServer": "http_server",
		"Phone2FA":   "phone2_fa",
		"fullName":   "full_name",
	}

	for in, want := range tests {
		if got := ToLowerSnake(in); got != want {
			t.Errorf("ToLowerSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
