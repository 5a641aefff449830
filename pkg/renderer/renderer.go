// Package renderer formats regression reports for terminals and machine
// consumers.
package renderer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wonderfulspam/config-warden/pkg/engine"
)

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, report *engine.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// RenderTable writes a human-readable report.
func RenderTable(w io.Writer, report *engine.Report) error {
	fmt.Fprintf(w, "Configuration Regression Report\n")
	fmt.Fprintf(w, "===============================\n")
	fmt.Fprintf(w, "Config type: %s\n", report.ConfigType)
	fmt.Fprintf(w, "History: %d snapshot(s)\n", report.SnapshotCount)
	fmt.Fprintf(w, "Overall score: %.3f (threshold %.3f at sensitivity %.2f)\n",
		report.OverallScore, report.Threshold, report.Sensitivity)
	fmt.Fprintf(w, "\n")

	for _, caveat := range report.Caveats {
		fmt.Fprintf(w, "⚠️  %s\n", caveat)
	}
	if len(report.Caveats) > 0 {
		fmt.Fprintf(w, "\n")
	}

	if len(report.Changes) == 0 {
		fmt.Fprintf(w, "✅ No changes detected.\n")
		return nil
	}

	fmt.Fprintf(w, "Changes (%d)\n", len(report.Changes))
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 11+digits(len(report.Changes))))
	for _, scored := range report.Changes {
		fmt.Fprintf(w, "%s %-8s %s (score %.3f)\n",
			marker(scored.Score), scored.Change.Type, scored.Change.Path, scored.Score)
		fmt.Fprintf(w, "    novelty %.2f, volatility %.2f, severity %.2f\n",
			scored.Factors.Novelty, scored.Factors.Volatility, scored.Factors.Severity)
		if scored.Change.OldValue != nil {
			fmt.Fprintf(w, "    old: %s\n", renderValue(scored.Change.OldValue))
		}
		if scored.Change.NewValue != nil {
			fmt.Fprintf(w, "    new: %s\n", renderValue(scored.Change.NewValue))
		}
	}
	fmt.Fprintf(w, "\n")

	if len(report.FlaggedChanges) > 0 {
		fmt.Fprintf(w, "🔴 %d change(s) individually exceed the %.1f severity bar\n",
			len(report.FlaggedChanges), engine.FlagThreshold)
	}

	if report.Flagged() {
		fmt.Fprintf(w, "🔴 Decision: FLAG — review before rollout\n")
	} else {
		fmt.Fprintf(w, "✅ Decision: ACCEPT\n")
	}
	return nil
}

func marker(score float64) string {
	switch {
	case score > engine.FlagThreshold:
		return "🔴"
	case score >= 0.5:
		return "🟡"
	default:
		return "🟢"
	}
}

func renderValue(node interface{ MarshalJSON() ([]byte, error) }) string {
	data, err := node.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	if len(data) > 120 {
		return string(data[:117]) + "..."
	}
	return string(data)
}

func digits(n int) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}
