package entity

import (
	"testing"
	"time"
)

func TestKindFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{in: "phone-signup", want: KindPhoneSignup},
		{in: " Phone-Update ", want: KindPhoneUpdate},
		{in: "email-verify", want: KindEmailVerify},
		{in: "email-update", want: KindEmailUpdate},
		{in: "sms", want: KindUnknown},
		{in: "", want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			// Act
			got := KindFromString(tt.in)

			// Assert
			if got != tt.want {
				t.Fatalf("KindFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if tt.want != KindUnknown && KindFromString(got.String()) != got {
				t.Fatalf("String() of %v does not parse back", got)
			}
		})
	}
}

func TestKind_Channel(t *testing.T) {
	if KindPhoneSignup.Channel() != ChannelSMS || KindPhoneUpdate.Channel() != ChannelSMS {
		t.Fatal("phone kinds must deliver over sms")
	}
	if KindEmailVerify.Channel() != ChannelEmail || KindEmailUpdate.Channel() != ChannelEmail {
		t.Fatal("email kinds must deliver over email")
	}
	if KindPhoneSignup.IsAccountScoped() {
		t.Fatal("phone-signup is scoped to attempts")
	}
	if !KindUnknown.IsUnknown() || KindEmailUpdate.IsUnknown() {
		t.Fatal("IsUnknown mismatch")
	}
}

func TestSlot_Confirmable(t *testing.T) {
	// Arrange
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	slot := Slot{CodeHash: "abc", ValidUntil: issued.Add(5 * time.Minute)}

	// Act & Assert
	if !slot.Confirmable("abc", issued) {
		t.Fatal("expected code to be confirmable at issuance")
	}
	if !slot.Confirmable("abc", issued.Add(5*time.Minute-time.Nanosecond)) {
		t.Fatal("expected code to be confirmable just before expiry")
	}
	if slot.Confirmable("abc", issued.Add(5*time.Minute)) {
		t.Fatal("expected code to be dead at valid_until")
	}
	if slot.Confirmable("abd", issued) {
		t.Fatal("expected wrong code to be rejected")
	}

	slot.Verified = true
	if slot.Confirmable("abc", issued) {
		t.Fatal("expected verified slot to be rejected")
	}
}
