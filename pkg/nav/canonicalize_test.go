package nav

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/users", "/users"},
		{"/users/", "/users"},
		{"//users///42", "/users/42"},
		{"/users/./42", "/users/42"},
		{"/users/42/../7", "/users/7"},
		{"/a/b/c/../../d", "/a/d"},
		{"/users?tab=posts", "/users?tab=posts"},
		{"/users/?tab=posts", "/users?tab=posts"},
		{"/users?", "/users"},
		{"/files/a%2Fb", "/files/a%2Fb"},
	}
	for _, tt := range tests {
		got, err := Canonicalize(tt.in)
		if err != nil {
			t.Errorf("Canonicalize(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalizeRejects(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"/a\\b", ErrBackslashInPath},
		{"/a\x00b", ErrNullByteInPath},
		{"/a%00b", ErrNullByteInPath},
		{"/a%zzb", ErrInvalidPercentEscape},
		{"/a%2", ErrInvalidPercentEscape},
		{"/..", ErrPathEscapesRoot},
		{"/a/../../b", ErrPathEscapesRoot},
	}
	for _, tt := range tests {
		_, err := Canonicalize(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Canonicalize(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestCanonicalizeNavPath(t *testing.T) {
	for _, in := range []string{"http://evil.test/x", "https://evil.test/x", "//evil.test/x", "users/42"} {
		if _, err := CanonicalizeNavPath(in); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("CanonicalizeNavPath(%q) error = %v, want %v", in, err, ErrInvalidPath)
		}
	}

	got, err := CanonicalizeNavPath("/users//42/")
	if err != nil {
		t.Fatalf("CanonicalizeNavPath: %v", err)
	}
	if got != "/users/42" {
		t.Errorf("CanonicalizeNavPath = %q, want %q", got, "/users/42")
	}
}
