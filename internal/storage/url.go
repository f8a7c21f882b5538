package storage

import (
	"net/url"
	"strings"
)

// ParseKey extracts the object key from a public URL of the form
// {scheme}://{host}/{bucket}/{key}. It only recognises URLs whose host and
// first path segment equal host and bucket; anything else yields ok=false and
// must be left alone by callers.
func ParseKey(rawURL, host, bucket string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != host {
		return "", false
	}

	segments := make([]string, 0, 8)
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 || segments[0] != bucket {
		return "", false
	}
	return strings.Join(segments[1:], "/"), true
}
