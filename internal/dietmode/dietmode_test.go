package dietmode

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"aggressive_cut", AggressiveCut, false},
		{"standard_cut", StandardCut, false},
		{"conservative_cut", ConservativeCut, false},
		{"maintenance", Maintenance, false},
		{"lean_bulk", LeanBulk, false},
		{"standard_bulk", StandardBulk, false},
		{"keto", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Fatalf("Parse(%q) err = %v, want ErrUnknownMode", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	for _, m := range All() {
		if m.IsCut() && m.IsBulk() {
			t.Errorf("%s is both cut and bulk", m)
		}
		rate := m.TargetRate()
		switch {
		case m.IsCut() && rate >= 0:
			t.Errorf("%s is a cut but target rate %.2f is not negative", m, rate)
		case m.IsBulk() && rate <= 0:
			t.Errorf("%s is a bulk but target rate %.2f is not positive", m, rate)
		}
	}
	if Maintenance.IsCut() || Maintenance.IsBulk() {
		t.Error("maintenance should be neither cut nor bulk")
	}
}

func TestTargetRates(t *testing.T) {
	if StandardCut.TargetRate() != -0.5 {
		t.Errorf("standard cut target = %v, want -0.5", StandardCut.TargetRate())
	}
	if AggressiveCut.TargetRate() != -0.8 {
		t.Errorf("aggressive cut target = %v, want -0.8", AggressiveCut.TargetRate())
	}
	if LeanBulk.TargetRate() != 0.25 {
		t.Errorf("lean bulk target = %v, want 0.25", LeanBulk.TargetRate())
	}
	if len(All()) != 6 {
		t.Errorf("expected 6 modes, got %d", len(All()))
	}
}
