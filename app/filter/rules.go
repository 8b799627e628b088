package filter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is the data a Filter is built from. It is loaded from configuration
// so the word list can change without a rebuild.
type Rules struct {
	MaxLength       int      `yaml:"max_length"`
	MaxAuthorLength int      `yaml:"max_author_length"`
	Substrings      []string `yaml:"substrings"`
	Patterns        []string `yaml:"patterns"`
}

// DefaultRules mirrors the placeholder list the site shipped with.
func DefaultRules() Rules {
	return Rules{
		MaxLength:       DefaultMaxLength,
		MaxAuthorLength: DefaultMaxAuthorLength,
		Substrings:      []string{"badword1", "badword2"},
	}
}

// LoadRules reads a yaml rules file. Bounds missing from the file keep the
// values already present in base.
func LoadRules(path string, base Rules) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read rules: %w", err)
	}

	rules := base
	rules.Substrings = nil
	rules.Patterns = nil
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return base, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return rules, nil
}
