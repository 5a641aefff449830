package severity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk shape of a severity rule set.
type RuleFile struct {
	DefaultWeight *float64 `yaml:"default_weight"`
	Rules         []Rule   `yaml:"rules"`
}

// LoadRules reads a YAML rule file and compiles it into a classifier.
func LoadRules(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	defaultWeight := DefaultWeight
	if file.DefaultWeight != nil {
		defaultWeight = *file.DefaultWeight
	}

	classifier, err := newClassifier(file.Rules, defaultWeight)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return classifier, nil
}

// DefaultRules covers segments that commonly gate access or expose
// credentials. Used when no rules file is supplied.
func DefaultRules() *Classifier {
	classifier, err := NewClassifier([]Rule{
		{Pattern: "~permitrootlogin", Weight: 0.9},
		{Pattern: "~allow_root", Weight: 0.9},
		{Pattern: "~permission", Weight: 0.9},
		{Pattern: "~password", Weight: 0.9},
		{Pattern: "~secret", Weight: 0.9},
		{Pattern: "~token", Weight: 0.85},
		{Pattern: "~credential", Weight: 0.85},
		{Pattern: "~privilege", Weight: 0.8},
		{Pattern: "~firewall", Weight: 0.7},
		{Pattern: "~listen", Weight: 0.6},
		{Pattern: "~port", Weight: 0.6},
		{Pattern: "~tls", Weight: 0.7},
		{Pattern: "~ssl", Weight: 0.7},
		{Pattern: "~auth", Weight: 0.7},
	})
	if err != nil {
		// The built-in rules are static; a compile failure is a programming
		// error.
		panic(err)
	}
	return classifier
}
