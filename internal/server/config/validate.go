package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.FetchPolicy {
	case FetchPolicyPublic, FetchPolicyAuthenticated, FetchPolicyOwner:
	default:
		errs = append(errs, fmt.Errorf("unknown fetch policy %q", c.FetchPolicy))
	}

	switch c.BlobBackend {
	case BlobBackendFS:
	case BlobBackendS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			errs = append(errs, errors.New("s3 bucket is required for the s3 blob backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob backend %q", c.BlobBackend))
	}

	if strings.Trim(c.UploadDir, "/ ") == "" {
		errs = append(errs, errors.New("upload dir must not be empty"))
	}
	if strings.TrimSpace(c.DefaultAssetPath) == "" {
		errs = append(errs, errors.New("default asset path must not be empty"))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("max upload size must be positive"))
	}
	if c.HealthCheckInterval <= 0 {
		errs = append(errs, errors.New("health check interval must be positive"))
	}

	return errors.Join(errs...)
}
