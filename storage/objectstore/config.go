package objectstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/viant/participant/internal/env"
)

// Config locates the bucket holding participant keys.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	// Prefix is prepended to every object name.
	Prefix string
	UseSSL bool
}

// ConfigFromEnv reads PARTICIPANT_S3_* variables.
func ConfigFromEnv() Config {
	return Config{
		Endpoint:  env.String("PARTICIPANT_S3_ENDPOINT", "localhost:9000"),
		AccessKey: env.String("PARTICIPANT_S3_ACCESS_KEY", ""),
		SecretKey: env.String("PARTICIPANT_S3_SECRET_KEY", ""),
		Region:    env.String("PARTICIPANT_S3_REGION", ""),
		Bucket:    env.String("PARTICIPANT_S3_BUCKET", "participant"),
		Prefix:    env.String("PARTICIPANT_S3_PREFIX", ""),
		UseSSL:    env.String("PARTICIPANT_S3_USE_SSL", "false") == "true",
	}
}

// WithURL applies an http(s)://endpoint/bucket[/prefix] location.
func (c Config) WithURL(raw string) (Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return c, fmt.Errorf("objectstore: invalid URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "https":
		c.UseSSL = true
	case "http":
		c.UseSSL = false
	default:
		return c, fmt.Errorf("objectstore: unsupported scheme %q", u.Scheme)
	}
	c.Endpoint = u.Host
	bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if bucket != "" {
		c.Bucket = bucket
	}
	if prefix != "" {
		c.Prefix = prefix
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("objectstore: endpoint is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("objectstore: bucket is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("objectstore: access key and secret key must be set together"))
	}
	return errors.Join(errs...)
}
