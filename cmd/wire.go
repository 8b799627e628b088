package cmd

import (
	"fmt"
	"os"

	"folio/app/auth"
	"folio/app/config"
	"folio/app/filter"
	"folio/app/repositories"
)

func openRepository(cfg config.Config) (*repositories.Repository, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return repositories.NewRepository(cfg.DataDir, repositories.Options{
		Timeout:      cfg.Store.Timeout,
		RetryBackoff: cfg.Store.RetryBackoff,
	})
}

// buildFilter turns the filter settings into a Filter. A rules file, when
// configured, replaces the inline word and pattern lists.
func buildFilter(cfg config.Config) (*filter.Filter, error) {
	rules := filter.Rules{
		MaxLength:       cfg.Filter.MaxLength,
		MaxAuthorLength: cfg.Filter.MaxAuthorLength,
		Substrings:      cfg.Filter.Patterns,
		Patterns:        cfg.Filter.Regexps,
	}
	if cfg.Filter.RulesFile != "" {
		loaded, err := filter.LoadRules(cfg.Filter.RulesFile, rules)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}
	return filter.New(rules)
}

func buildCredentials(cfg config.Config, admins repositories.AdminRepository) (*auth.CredentialStore, error) {
	hasher, err := auth.NewHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	return auth.NewCredentialStore(admins, hasher), nil
}
