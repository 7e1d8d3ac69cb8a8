package roster

import "testing"

func TestModeMatches(t *testing.T) {
	cases := []struct {
		mode                       Mode
		pointMet, creditMet, manual bool
		want                       bool
	}{
		{ModePoint, true, false, false, true},
		{ModePoint, false, true, true, false},
		{ModeCredit, false, true, false, true},
		{ModeCredit, true, false, true, false},
		{ModeBoth, true, true, false, true},
		{ModeBoth, true, false, false, false},
		{ModeAny, false, true, false, true},
		{ModeAny, false, false, true, true},
		{ModeAny, false, false, false, false},
	}

	for _, tc := range cases {
		if got := tc.mode.Matches(tc.pointMet, tc.creditMet, tc.manual); got != tc.want {
			t.Errorf("%s.Matches(%v,%v,%v) = %v, want %v",
				tc.mode, tc.pointMet, tc.creditMet, tc.manual, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	if mode, ok := ParseMode(""); !ok || mode != ModeAny {
		t.Fatalf("empty mode should default to any, got %q ok=%v", mode, ok)
	}
	if mode, ok := ParseMode("both"); !ok || mode != ModeBoth {
		t.Fatalf("expected both, got %q ok=%v", mode, ok)
	}
	if _, ok := ParseMode("sideways"); ok {
		t.Fatal("unknown mode should not parse")
	}
}
