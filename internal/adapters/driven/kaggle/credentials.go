package kaggle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// LoadCredentials resolves Kaggle API credentials the way the official
// tooling does: KAGGLE_USERNAME/KAGGLE_KEY environment variables first,
// then kaggle.json under KAGGLE_CONFIG_DIR or ~/.kaggle.
func LoadCredentials() (domain.CatalogCredentials, error) {
	creds := domain.CatalogCredentials{
		Username: os.Getenv("KAGGLE_USERNAME"),
		Key:      os.Getenv("KAGGLE_KEY"),
	}
	if !creds.IsZero() {
		return creds, nil
	}

	path, err := credentialsPath()
	if err != nil {
		return domain.CatalogCredentials{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CatalogCredentials{}, fmt.Errorf("read catalog credentials: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return domain.CatalogCredentials{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if creds.IsZero() {
		return domain.CatalogCredentials{}, fmt.Errorf("%s holds no username/key pair", path)
	}
	return creds, nil
}

func credentialsPath() (string, error) {
	if dir := os.Getenv("KAGGLE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "kaggle.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate catalog credentials: %w", err)
	}
	return filepath.Join(home, ".kaggle", "kaggle.json"), nil
}
