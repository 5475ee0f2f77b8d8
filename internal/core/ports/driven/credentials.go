package driven

import (
	"context"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// CredentialsProvider supplies catalog credentials to the transport.
// Credentials are passed through untouched; nothing in the system stores
// or refreshes them.
type CredentialsProvider interface {
	// Credentials returns the catalog credential pair. A zero value is
	// valid: the catalog is then called anonymously.
	Credentials(ctx context.Context) (domain.CatalogCredentials, error)
}

// StaticCredentialsProvider returns a fixed credential pair.
type StaticCredentialsProvider struct {
	creds domain.CatalogCredentials
}

// NewStaticCredentialsProvider creates a provider for already-resolved
// credentials.
func NewStaticCredentialsProvider(creds domain.CatalogCredentials) *StaticCredentialsProvider {
	return &StaticCredentialsProvider{creds: creds}
}

// Credentials returns the stored pair.
func (p *StaticCredentialsProvider) Credentials(ctx context.Context) (domain.CatalogCredentials, error) {
	return p.creds, nil
}
