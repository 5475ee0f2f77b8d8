package kaggle

import (
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

const (
	defaultBaseURL = "https://www.kaggle.com/api/v1"
	defaultTimeout = 30 * time.Second
)

// Config configures the Kaggle API client.
type Config struct {
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// Credentials supplies the authentication pair per request. Nil
	// means anonymous access.
	Credentials driven.CredentialsProvider

	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Credentials == nil {
		c.Credentials = driven.NewStaticCredentialsProvider(domain.CatalogCredentials{})
	}
}
