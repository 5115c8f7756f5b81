package route

import (
	"net/url"
	"strings"
)

// EncodeQuery renders query parameters as percent-encoded key/value pairs
// joined by "&", prefixed by "?" when non-empty. Keys are emitted in
// sorted order so output is deterministic.
func EncodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ParseQuery parses a raw query string (without the leading "?"). Pairs
// split on the first "="; a pair with an empty key is treated as absent,
// and keys and values are percent-decoded. Undecodable pairs are dropped.
func ParseQuery(raw string) url.Values {
	q := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		dk, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		dv, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		q.Add(dk, dv)
	}
	return q
}

// splitPathQuery splits a navigation input into path and raw query.
func splitPathQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
