package config

import (
	"slices"
	"testing"
	"time"
)

const sampleYAML = `
app:
  name: otcgate
  cors: "http://a.test, http://b.test,,"
modules:
  verification:
    code_ttl: 5m
    cooldown_seconds: 60
    channels: "sms:mobizon,email:smtp"
`

func TestViperFromBytes(t *testing.T) {
	t.Run("MissingType", func(t *testing.T) {
		// Act
		_, err := NewViperFromBytes(" ", []byte(sampleYAML))

		// Assert
		if err != ErrConfigTypeRequired {
			t.Fatalf("expected ErrConfigTypeRequired, got %v", err)
		}
	})

	t.Run("Getters", func(t *testing.T) {
		// Arrange
		cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
		if err != nil {
			t.Fatalf("load config: %v", err)
		}

		// Act & Assert
		if got := cfg.GetString("app.name"); got != "otcgate" {
			t.Fatalf("app.name = %q", got)
		}
		if got := cfg.GetArray("app.cors"); !slices.Equal(got, []string{"http://a.test", "http://b.test"}) {
			t.Fatalf("app.cors = %#v", got)
		}
		if got := cfg.GetArray("app.missing"); got != nil {
			t.Fatalf("expected nil for missing array, got %#v", got)
		}
		if got := cfg.GetDuration("modules.verification.code_ttl"); got != 5*time.Minute {
			t.Fatalf("code_ttl = %s", got)
		}
		if got := cfg.GetSecond("modules.verification.cooldown_seconds"); got != time.Minute {
			t.Fatalf("cooldown = %s", got)
		}
		m := cfg.GetMap("modules.verification.channels")
		if m["sms"] != "mobizon" || m["email"] != "smtp" {
			t.Fatalf("channels = %#v", m)
		}
	})

	t.Run("EnvOverride", func(t *testing.T) {
		// Arrange
		t.Setenv("OTCGATE_APP_NAME", "from-env")
		cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
		if err != nil {
			t.Fatalf("load config: %v", err)
		}

		// Act
		got := cfg.GetString("app.name")

		// Assert
		if got != "from-env" {
			t.Fatalf("expected env override, got %q", got)
		}
	})
}
