package utils

import (
	"testing"
)

func TestNewLoginCode_LengthAndCharset(t *testing.T) {
	code, err := NewLoginCode(4)
	if err != nil {
		t.Fatalf("NewLoginCode: %v", err)
	}
	if len(code) != 8 {
		t.Errorf("length = %d, want 8", len(code))
	}
	for _, r := range code {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			t.Errorf("code %q contains non-hex char %q", code, r)
		}
	}
}

func TestNewLoginCode_DefaultBytes(t *testing.T) {
	code, err := NewLoginCode(0)
	if err != nil {
		t.Fatalf("NewLoginCode: %v", err)
	}
	if len(code) != 8 {
		t.Errorf("length = %d, want 8 for default", len(code))
	}
}

func TestNewLoginCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewLoginCode(4)
		if err != nil {
			t.Fatalf("NewLoginCode: %v", err)
		}
		seen[code] = true
	}
	// 100 кодов из пространства 2^32 — коллизии всех сразу быть не может
	if len(seen) < 2 {
		t.Errorf("generator returned a constant: %v", seen)
	}
}
