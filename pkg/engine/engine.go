// Package engine is the validation entry point. It ties the history store,
// pattern model builder, severity classifier and risk scorer together into
// the validate/accept surface exposed to drivers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wonderfulspam/config-warden/pkg/differ"
	"github.com/wonderfulspam/config-warden/pkg/history"
	"github.com/wonderfulspam/config-warden/pkg/logger"
	"github.com/wonderfulspam/config-warden/pkg/model"
	"github.com/wonderfulspam/config-warden/pkg/scorer"
	"github.com/wonderfulspam/config-warden/pkg/severity"
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

// ErrInvalidSensitivity is returned when sensitivity falls outside [0,1].
// It is rejected before any scoring happens.
var ErrInvalidSensitivity = errors.New("sensitivity must be in [0,1]")

// FlagThreshold is the per-change score above which a change is always
// surfaced in the report, regardless of the overall decision.
const FlagThreshold = 0.8

// Engine validates proposed configurations against learned history.
// Validations of different config types are safe to run concurrently;
// appends are serialized per config type.
type Engine struct {
	store      history.Store
	classifier *severity.Classifier
	builder    *model.Builder
	log        *slog.Logger

	mu     sync.Mutex
	cache  map[string]*model.PatternModel
	writes map[string]*sync.Mutex
}

type Option func(*Engine)

// WithClassifier replaces the built-in severity rules.
func WithClassifier(classifier *severity.Classifier) Option {
	return func(e *Engine) {
		if classifier != nil {
			e.classifier = classifier
		}
	}
}

// WithModelBuilder replaces the default pattern model builder.
func WithModelBuilder(builder *model.Builder) Option {
	return func(e *Engine) {
		if builder != nil {
			e.builder = builder
		}
	}
}

func New(store history.Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		classifier: severity.DefaultRules(),
		builder:    model.NewBuilder(),
		log:        logger.Component("engine"),
		cache:      map[string]*model.PatternModel{},
		writes:     map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate scores a proposed configuration for config type configType
// against its history and returns the regression report. The call is
// read-only: nothing is persisted until Accept.
func (e *Engine) Validate(ctx context.Context, configType string, proposed *tree.Node, sensitivity float64) (*Report, error) {
	if sensitivity < 0 || sensitivity > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSensitivity, sensitivity)
	}
	if err := tree.Validate(proposed); err != nil {
		return nil, fmt.Errorf("proposed configuration: %w", err)
	}

	snapshots, err := e.store.Read(ctx, configType)
	if err != nil {
		return nil, err
	}

	patternModel := e.modelFor(configType, snapshots)

	var baseline *tree.Node
	if len(snapshots) > 0 {
		baseline = snapshots[len(snapshots)-1].Tree
	} else {
		baseline = tree.Mapping()
	}

	changes := differ.Diff(baseline, proposed)

	report := &Report{
		ConfigType:    configType,
		Sensitivity:   sensitivity,
		Threshold:     1.0 - sensitivity,
		SnapshotCount: len(snapshots),
		Changes:       make([]ScoredChange, 0, len(changes)),
	}
	if len(snapshots) == 0 {
		// A brand-new config type legitimately has no history; every field
		// scores as maximally novel instead of failing the call.
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("no history for config type %q; all changes treated as maximally novel", configType))
	}

	scores := make([]float64, 0, len(changes))
	for _, change := range changes {
		weight := e.classifier.Classify(change.Path)
		score, factors := scorer.Score(change, patternModel.Profile(change.Path.String()), weight)
		scores = append(scores, score)
		report.Changes = append(report.Changes, ScoredChange{
			Change:  change,
			Score:   score,
			Factors: factors,
		})
	}

	report.OverallScore = scorer.Aggregate(scores)
	report.Decision = DecisionAccept
	if len(changes) > 0 && report.OverallScore >= report.Threshold {
		report.Decision = DecisionFlag
	}

	for _, scored := range report.Changes {
		if scored.Score > FlagThreshold {
			report.FlaggedChanges = append(report.FlaggedChanges, scored)
		}
	}

	e.log.Debug("validated proposal",
		"config_type", configType,
		"changes", len(changes),
		"overall_score", report.OverallScore,
		"decision", report.Decision)

	return report, nil
}

// Accept stamps the proposed tree into a snapshot and appends it to the
// history store. Appends for the same config type are serialized; appends
// for different types never contend.
func (e *Engine) Accept(ctx context.Context, configType string, proposed *tree.Node) (*history.Snapshot, error) {
	if err := tree.Validate(proposed); err != nil {
		return nil, fmt.Errorf("proposed configuration: %w", err)
	}

	lock := e.writeLock(configType)
	lock.Lock()
	defer lock.Unlock()

	snapshot := history.NewSnapshot(configType, proposed)
	if err := e.store.Append(ctx, snapshot); err != nil {
		return nil, err
	}

	e.mu.Lock()
	delete(e.cache, configType)
	e.mu.Unlock()

	e.log.Info("accepted snapshot", "config_type", configType, "snapshot_id", snapshot.ID)
	return snapshot, nil
}

// modelFor returns the cached pattern model for the type, rebuilding when
// the history has grown since the cached build.
func (e *Engine) modelFor(configType string, snapshots []*history.Snapshot) *model.PatternModel {
	e.mu.Lock()
	defer e.mu.Unlock()

	cached, ok := e.cache[configType]
	if ok && cached.SnapshotCount == len(snapshots) {
		return cached
	}

	built := e.builder.Build(configType, snapshots)
	e.cache[configType] = built
	e.log.Debug("rebuilt pattern model",
		"config_type", configType,
		"snapshots", built.SnapshotCount,
		"profiles", len(built.Profiles))
	return built
}

func (e *Engine) writeLock(configType string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.writes[configType]
	if !ok {
		lock = &sync.Mutex{}
		e.writes[configType] = lock
	}
	return lock
}
