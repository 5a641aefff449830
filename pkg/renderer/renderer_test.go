package renderer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/wonderfulspam/config-warden/pkg/differ"
	"github.com/wonderfulspam/config-warden/pkg/engine"
	"github.com/wonderfulspam/config-warden/pkg/scorer"
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

func sampleReport() *engine.Report {
	change := differ.Change{
		Type:     differ.ChangeTypeModified,
		Path:     tree.Path{}.Child("PermitRootLogin"),
		OldValue: tree.Scalar("no"),
		NewValue: tree.Scalar("yes"),
	}
	scored := engine.ScoredChange{
		Change:  change,
		Score:   0.9,
		Factors: scorer.Factors{Novelty: 1, Volatility: 0, Severity: 0.9},
	}
	return &engine.Report{
		ConfigType:     "sshd",
		Decision:       engine.DecisionFlag,
		OverallScore:   0.9,
		Sensitivity:    0.5,
		Threshold:      0.5,
		SnapshotCount:  3,
		Changes:        []engine.ScoredChange{scored},
		FlaggedChanges: []engine.ScoredChange{scored},
	}
}

func TestRenderTable_FlaggedReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"sshd",
		"PermitRootLogin",
		"modified",
		"FLAG",
		"0.900",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable_NoChanges(t *testing.T) {
	report := &engine.Report{
		ConfigType:  "nginx",
		Decision:    engine.DecisionAccept,
		Sensitivity: 0.8,
		Threshold:   0.2,
		Changes:     []engine.ScoredChange{},
	}

	var buf bytes.Buffer
	if err := RenderTable(&buf, report); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No changes detected") {
		t.Errorf("expected no-changes notice, got:\n%s", buf.String())
	}
}

func TestRenderTable_Caveats(t *testing.T) {
	report := sampleReport()
	report.Caveats = []string{`no history for config type "sshd"`}

	var buf bytes.Buffer
	if err := RenderTable(&buf, report); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no history for config type") {
		t.Errorf("caveat not rendered:\n%s", buf.String())
	}
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["decision"] != "flag" {
		t.Errorf("decision = %v, want flag", decoded["decision"])
	}
	if decoded["config_type"] != "sshd" {
		t.Errorf("config_type = %v, want sshd", decoded["config_type"])
	}

	changes, ok := decoded["changes"].([]interface{})
	if !ok || len(changes) != 1 {
		t.Fatalf("expected 1 change in JSON output, got %v", decoded["changes"])
	}
	change := changes[0].(map[string]interface{})["change"].(map[string]interface{})
	if change["path"] != "PermitRootLogin" {
		t.Errorf("path rendered as %v, want PermitRootLogin", change["path"])
	}
}
