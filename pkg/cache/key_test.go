package cache

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		kind string
		id   string
		want string
	}{
		{"item", "1038081", "item:1038081"},
		{"listing", "front", "listing:front"},
		{"item", "", "item:"},
	}

	for _, tt := range tests {
		if got := Key(tt.kind, tt.id); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.kind, tt.id, got, tt.want)
		}
	}
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key      string
		wantKind string
		wantID   string
	}{
		{"item:1038081", "item", "1038081"},
		{"listing:front", "listing", "front"},
		{"bare", "", "bare"},
	}

	for _, tt := range tests {
		kind, id := SplitKey(tt.key)
		if kind != tt.wantKind || id != tt.wantID {
			t.Errorf("SplitKey(%q) = %q, %q; want %q, %q", tt.key, kind, id, tt.wantKind, tt.wantID)
		}
	}
}
