package uid

import "testing"

func TestSnowflake_Generate(t *testing.T) {
	// Arrange
	gen, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	// Act
	seen := make(map[int64]struct{}, 1000)
	var last int64
	for range 1000 {
		id := gen.Generate()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		if id <= last {
			t.Fatalf("ids must increase: %d after %d", id, last)
		}
		seen[id] = struct{}{}
		last = id
	}
}

func TestNewSnowflake_InvalidNode(t *testing.T) {
	if _, err := NewSnowflake(4096); err == nil {
		t.Fatal("expected error for out of range node")
	}
}

func TestUUID_Generate(t *testing.T) {
	u := NewUUID()
	a, b := u.Generate(), u.Generate()
	if len(a) != 36 || a == b {
		t.Fatalf("unexpected uuids %q %q", a, b)
	}
}
