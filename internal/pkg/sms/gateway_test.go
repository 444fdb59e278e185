package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGateway_Send(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantID       string
		wantRejected bool
		wantErr      bool
	}{
		{name: "Accepted", status: http.StatusOK, body: `{"code":0,"data":{"messageId":"m-1"}}`, wantID: "m-1"},
		{name: "ProviderCode", status: http.StatusOK, body: `{"code":2,"message":"bad recipient"}`, wantRejected: true, wantErr: true},
		{name: "ClientStatus", status: http.StatusForbidden, body: `{}`, wantRejected: true, wantErr: true},
		{name: "ServerStatus", status: http.StatusBadGateway, body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var gotRecipient, gotKey string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = r.ParseForm()
				gotRecipient, gotKey = r.PostForm.Get("recipient"), r.PostForm.Get("apiKey")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGateway(GatewayConfig{URL: srv.URL, APIKey: "key-1"})

			// Act
			id, err := g.Send(context.Background(), "+77001234567", "Your code is 123456")

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrRejected) != tt.wantRejected {
				t.Fatalf("rejected = %v, want %v (%v)", errors.Is(err, ErrRejected), tt.wantRejected, err)
			}
			if id != tt.wantID {
				t.Fatalf("id = %q, want %q", id, tt.wantID)
			}
			if gotRecipient != "77001234567" || gotKey != "key-1" {
				t.Fatalf("form = %q %q", gotRecipient, gotKey)
			}
		})
	}
}

func TestDryRun_Send(t *testing.T) {
	d := NewDryRun()

	if _, err := d.Send(context.Background(), "", "x"); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}

	id, err := d.Send(context.Background(), "+14155550100", "Your code is 123456")
	if err != nil || id != "dry-run-1" || d.Sent() != 1 {
		t.Fatalf("id=%q err=%v sent=%d", id, err, d.Sent())
	}
}
