package main

import (
	"fmt"

	"github.com/wonderfulspam/config-warden/pkg/engine"
	"github.com/wonderfulspam/config-warden/pkg/history"
	"github.com/wonderfulspam/config-warden/pkg/history/sqlite"
	"github.com/wonderfulspam/config-warden/pkg/severity"
)

func openStore() (history.Store, error) {
	store, err := sqlite.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store %s: %w", storePath, err)
	}
	return store, nil
}

func loadClassifier(rulesPath string) (*severity.Classifier, error) {
	if rulesPath == "" {
		return severity.DefaultRules(), nil
	}
	return severity.LoadRules(rulesPath)
}

func newEngine(store history.Store, rulesPath string) (*engine.Engine, error) {
	classifier, err := loadClassifier(rulesPath)
	if err != nil {
		return nil, err
	}
	return engine.New(store, engine.WithClassifier(classifier)), nil
}
