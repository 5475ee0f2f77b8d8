package domain

// CatalogCredentials carry the remote catalog's authentication pair.
// They are passed through to the transport untouched; nothing stores
// them. The JSON tags match the credential file format of the catalog's
// official tooling.
type CatalogCredentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// IsZero reports whether no credentials were supplied. Zero credentials
// mean anonymous catalog access, not an error.
func (c CatalogCredentials) IsZero() bool {
	return c.Username == "" && c.Key == ""
}
