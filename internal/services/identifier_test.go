package services

import "testing"

func TestNormalizeIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  User@Example.COM ", "user@example.com", true},
		{"USERNAME", "username", true},
		{"   ", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := normalizeIdentifier(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("normalizeIdentifier(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLooksLikeEmail(t *testing.T) {
	if !looksLikeEmail("a@b.com") {
		t.Fatal("expected address to classify as email")
	}
	if looksLikeEmail("username") {
		t.Fatal("expected bare username to classify as non-email")
	}
}
