package spell

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "sales", "sales", 0},
		{"empty first", "", "abc", 3},
		{"empty second", "abc", "", 3},
		{"single substitution", "sales", "salas", 1},
		{"single insertion", "sale", "sales", 1},
		{"single deletion", "sales", "sale", 1},
		{"transposition", "slaes", "sales", 1},
		{"two edits", "reprot", "report", 1},
		{"unrelated", "abc", "xyz", 3},
		{"unicode", "café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"budget", "budgte"},
		{"escalation", "escalatoin"},
		{"", "x"},
	}
	for _, p := range pairs {
		if Distance(p[0], p[1]) != Distance(p[1], p[0]) {
			t.Errorf("Distance not symmetric for %q, %q", p[0], p[1])
		}
	}
}
