package security

import (
	"testing"
)

func TestMD5Digest128(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"The quick brown fox jumps over the lazy dog", "9e107d9d372bb6826bd81d3542a419d6"},
	}
	d := NewMD5()
	for _, c := range cases {
		got, err := d.Digest128(c.in)
		if err != nil {
			t.Fatalf("Digest128(%q) err: %v", c.in, err)
		}
		if got != c.out {
			t.Fatalf("Digest128(%q) = %s want %s", c.in, got, c.out)
		}
	}
}
