package rules

import "testing"

func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{3, -4},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{14, 2},
		{15, 2},
		{16, 3},
		{18, 4},
		{20, 5},
		{30, 10},
		{0, -5},
		{-1, -6},
		{-4, -7},
	}
	for _, tt := range tests {
		if got := Modifier(tt.score); got != tt.want {
			t.Errorf("Modifier(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestModifierMatchesFloorFormula(t *testing.T) {
	for s := -40; s <= 60; s++ {
		diff := s - 10
		want := diff / 2
		if diff%2 != 0 && diff < 0 {
			want--
		}
		if got := Modifier(s); got != want {
			t.Errorf("Modifier(%d) = %d, want floor((s-10)/2) = %d", s, got, want)
		}
	}
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{12, 4},
		{13, 5},
		{16, 5},
		{17, 6},
		{20, 6},
		{25, 6},
	}
	for _, tt := range tests {
		if got := ProficiencyBonus(tt.level); got != tt.want {
			t.Errorf("ProficiencyBonus(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestProficiencyBonusMonotonic(t *testing.T) {
	prev := ProficiencyBonus(-10)
	for level := -9; level <= 30; level++ {
		got := ProficiencyBonus(level)
		if got < prev {
			t.Fatalf("ProficiencyBonus(%d) = %d, lower than level %d (%d)", level, got, level-1, prev)
		}
		prev = got
	}
}

func TestFormatSigned(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "+0"},
		{2, "+2"},
		{13, "+13"},
		{-1, "-1"},
		{-5, "-5"},
	}
	for _, tt := range tests {
		if got := FormatSigned(tt.n); got != tt.want {
			t.Errorf("FormatSigned(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
