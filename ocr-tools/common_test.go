package main

import "testing"

func TestParseCodepoints(t *testing.T) {
	got, err := parseCodepoints("U+E001, u+e002 0xE003,41\tU+1F600")
	if err != nil {
		t.Fatal(err)
	}
	want := []rune{0xE001, 0xE002, 0xE003, 0x41, 0x1F600}
	if len(got) != len(want) {
		t.Fatalf("parseCodepoints = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("codepoint[%d] = %U; want %U", i, got[i], want[i])
		}
	}
	for _, bad := range []string{"U+XYZ", "0x110000", "E001,,zz"} {
		if _, err := parseCodepoints(bad); err == nil {
			t.Errorf("parseCodepoints(%q) succeeded; want error", bad)
		}
	}
}

func TestPrintable(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"的", "的"},
		{"ab", "ab"},
		{"a\x00", `"a\x00"`},
	} {
		if got := printable(tc.in); got != tc.want {
			t.Errorf("printable(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
