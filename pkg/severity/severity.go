// Package severity maps field paths to intrinsic sensitivity weights using
// an ordered, first-match-wins rule set. Patterns address path segments in
// dotted form: an exact segment, "*" for any single segment, or "~text"
// for a substring match on a segment. A single-segment pattern matches a
// path if any of its segments matches; multi-segment patterns must match
// the whole path.
package severity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonderfulspam/config-warden/pkg/tree"
)

// DefaultWeight applies to paths no rule matches.
const DefaultWeight = 0.3

// Rule pairs a path pattern with a sensitivity weight in [0,1].
type Rule struct {
	Pattern string  `yaml:"pattern" json:"pattern"`
	Weight  float64 `yaml:"weight" json:"weight"`
}

type matchKind int

const (
	matchExact matchKind = iota
	matchWildcard
	matchSubstring
)

type segmentMatcher struct {
	kind matchKind
	text string
}

func (m segmentMatcher) matches(segment tree.Segment) bool {
	var text string
	if segment.IsIndex {
		text = strconv.Itoa(segment.Pos)
	} else {
		text = segment.Key
	}

	switch m.kind {
	case matchWildcard:
		return true
	case matchSubstring:
		return strings.Contains(strings.ToLower(text), m.text)
	default:
		return text == m.text
	}
}

type compiledRule struct {
	Rule
	matchers []segmentMatcher
}

// Classifier evaluates severity rules in priority order.
type Classifier struct {
	rules         []compiledRule
	defaultWeight float64
}

// NewClassifier compiles an ordered rule set. Rules with weights outside
// [0,1] or empty patterns are rejected.
func NewClassifier(rules []Rule) (*Classifier, error) {
	return newClassifier(rules, DefaultWeight)
}

func newClassifier(rules []Rule, defaultWeight float64) (*Classifier, error) {
	if defaultWeight < 0 || defaultWeight > 1 {
		return nil, fmt.Errorf("default weight %v outside [0,1]", defaultWeight)
	}

	c := &Classifier{defaultWeight: defaultWeight}
	for i, rule := range rules {
		if rule.Weight < 0 || rule.Weight > 1 {
			return nil, fmt.Errorf("rule %d (%q): weight %v outside [0,1]", i, rule.Pattern, rule.Weight)
		}
		compiled, err := compilePattern(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		c.rules = append(c.rules, compiledRule{Rule: rule, matchers: compiled})
	}
	return c, nil
}

func compilePattern(pattern string) ([]segmentMatcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	parts := strings.Split(pattern, ".")
	matchers := make([]segmentMatcher, 0, len(parts))
	for _, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("pattern %q has an empty segment", pattern)
		case part == "*":
			matchers = append(matchers, segmentMatcher{kind: matchWildcard})
		case strings.HasPrefix(part, "~"):
			text := strings.ToLower(strings.TrimPrefix(part, "~"))
			if text == "" {
				return nil, fmt.Errorf("pattern %q has an empty substring segment", pattern)
			}
			matchers = append(matchers, segmentMatcher{kind: matchSubstring, text: text})
		default:
			matchers = append(matchers, segmentMatcher{kind: matchExact, text: part})
		}
	}
	return matchers, nil
}

// Classify returns the weight of the first matching rule, or the default
// weight when nothing matches.
func (c *Classifier) Classify(path tree.Path) float64 {
	for _, rule := range c.rules {
		if rule.ruleMatches(path) {
			return rule.Weight
		}
	}
	return c.defaultWeight
}

// Rules returns the configured rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, rule := range c.rules {
		out[i] = rule.Rule
	}
	return out
}

// DefaultWeight returns the weight applied when no rule matches.
func (c *Classifier) DefaultWeight() float64 {
	return c.defaultWeight
}

func (r compiledRule) ruleMatches(path tree.Path) bool {
	if len(r.matchers) == 1 {
		for _, segment := range path {
			if r.matchers[0].matches(segment) {
				return true
			}
		}
		return false
	}

	if len(r.matchers) != len(path) {
		return false
	}
	for i, matcher := range r.matchers {
		if !matcher.matches(path[i]) {
			return false
		}
	}
	return true
}
