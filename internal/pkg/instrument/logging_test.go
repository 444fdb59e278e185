package instrument

import (
	"context"
	"log/slog"
	"testing"
)

func TestMaskAttr(t *testing.T) {
	keys := buildMaskKeys([]string{" Code ", "password", ""})

	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{name: "TopLevel", attr: slog.String("code", "123456"), want: "***"},
		{name: "CaseInsensitive", attr: slog.String("PASSWORD", "secret"), want: "***"},
		{name: "Untouched", attr: slog.String("phone", "+14155550100"), want: "+14155550100"},
		{name: "JSONString", attr: slog.String("body", `{"code":"123456"}`), want: `{"code":"***"}`},
		{name: "Bytes", attr: slog.Any("body", []byte(`[{"password":"x"}]`)), want: `[{"password":"***"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := maskAttr(tt.attr, keys)

			// Assert
			if got.Value.String() != tt.want {
				t.Fatalf("got %q, want %q", got.Value.String(), tt.want)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}

	ctx := SetCorrelationID(context.Background(), "cid-1")
	if got := GetCorrelationID(ctx); got != "cid-1" {
		t.Fatalf("got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug")
	}
	if parseLevel("") != slog.LevelInfo || parseLevel("loud") != slog.LevelInfo {
		t.Fatal("fallback must be info")
	}
}
