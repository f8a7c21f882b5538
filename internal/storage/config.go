package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Config holds the connection settings for an S3-compatible object store.
type Config struct {
	Endpoint  string // e.g. "https://s3.tebi.io" or "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("storage config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// hostAndScheme splits the endpoint into the host[:port] the SDK expects and
// the scheme used for public URLs. An endpoint without a scheme is treated as https.
func (c Config) hostAndScheme() (host, scheme string, err error) {
	ep := strings.TrimSpace(c.Endpoint)
	if !strings.Contains(ep, "://") {
		ep = "https://" + ep
	}
	u, err := url.Parse(ep)
	if err != nil {
		return "", "", fmt.Errorf("parse endpoint %q: %w", c.Endpoint, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("parse endpoint %q: empty host", c.Endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("parse endpoint %q: unsupported scheme %q", c.Endpoint, u.Scheme)
	}
	return u.Host, u.Scheme, nil
}
