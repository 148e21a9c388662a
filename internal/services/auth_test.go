package services

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		wantErr bool
	}{
		{"too short", "abc1", true},
		{"no digit", "abcdefgh", true},
		{"ok", "physics12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.pw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validatePassword(%q) err = %v, wantErr %v", tt.pw, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := generateToken(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
	b, _ := generateToken(16)
	if a == b {
		t.Fatalf("expected distinct tokens")
	}
}
