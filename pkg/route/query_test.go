package route

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want url.Values
	}{
		{"empty", "", url.Values{}},
		{"single pair", "a=1", url.Values{"a": {"1"}}},
		{"multiple pairs", "a=1&b=2", url.Values{"a": {"1"}, "b": {"2"}}},
		{"repeated key", "a=1&a=2", url.Values{"a": {"1", "2"}}},
		{"value with equals", "a=b=c", url.Values{"a": {"b=c"}}},
		{"missing value", "a", url.Values{"a": {""}}},
		{"empty key dropped", "=x&a=1", url.Values{"a": {"1"}}},
		{"empty pair dropped", "a=1&&b=2", url.Values{"a": {"1"}, "b": {"2"}}},
		{"percent decoded", "q=a%20b&r=%2F", url.Values{"q": {"a b"}, "r": {"/"}}},
		{"bad escape dropped", "a=%zz&b=2", url.Values{"b": {"2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuery(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	if got := EncodeQuery(nil); got != "" {
		t.Errorf("EncodeQuery(nil) = %q, want empty", got)
	}
	if got := EncodeQuery(url.Values{}); got != "" {
		t.Errorf("EncodeQuery(empty) = %q, want empty", got)
	}

	got := EncodeQuery(url.Values{"b": {"2"}, "a": {"x y"}})
	if got != "?a=x+y&b=2" {
		t.Errorf("EncodeQuery = %q, want %q", got, "?a=x+y&b=2")
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	q := url.Values{"q": {"go routing"}, "page": {"2"}}
	got := ParseQuery(EncodeQuery(q)[1:])
	if !reflect.DeepEqual(got, q) {
		t.Errorf("round trip = %v, want %v", got, q)
	}
}

func TestFilterQuery(t *testing.T) {
	q := url.Values{"q": {"x"}, "page": {"1"}, "utm_source": {"mail"}, "utm_medium": {"cpc"}}

	if got := filterQuery(q, nil); !reflect.DeepEqual(got, q) {
		t.Errorf("nil patterns should watch everything, got %v", got)
	}

	got := filterQuery(q, []string{"q"})
	want := url.Values{"q": {"x"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterQuery(q) = %v, want %v", got, want)
	}

	got = filterQuery(q, []string{"utm_*"})
	want = url.Values{"utm_source": {"mail"}, "utm_medium": {"cpc"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterQuery(utm_*) = %v, want %v", got, want)
	}
}
