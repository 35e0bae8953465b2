package domain

import "strings"

// rewriteRule is one step of the label-rewrite chain: if the predicate
// matches the current label, apply replaces it. Rules run in declaration
// order and each sees the output of the previous one, so a label rewritten
// by an early rule can still trigger a later rule.
type rewriteRule struct {
	name    string
	matches func(label string) bool
	apply   func(label string) string
}

func containsRule(name, substr, replacement string) rewriteRule {
	return rewriteRule{
		name:    name,
		matches: func(label string) bool { return strings.Contains(label, substr) },
		apply:   func(string) string { return replacement },
	}
}

// rewriteRules folds the long tail of hand-entered EVTYPE spellings into the
// handful of canonical names that dominate the impact rankings. TSTM is a
// substring substitution (so "TSTM WIND" becomes "THUNDERSTORM WIND" and
// immediately satisfies the next rule); every other rule replaces the whole
// label.
var rewriteRules = []rewriteRule{
	{
		name:    "tstm",
		matches: func(label string) bool { return strings.Contains(label, "TSTM") },
		apply:   func(label string) string { return strings.ReplaceAll(label, "TSTM", "THUNDERSTORM") },
	},
	containsRule("thunderstorm_wind", "THUNDERSTORM WIND", "THUNDERSTORM WIND"),
	containsRule("winter", "WINTER", "WINTER WEATHER"),
	{
		name: "flood",
		matches: func(label string) bool {
			return strings.Contains(label, "FLD") || strings.Contains(label, "FLOOD")
		},
		apply: func(string) string { return "FLOOD" },
	},
	containsRule("hurricane", "HURRICANE", "HURRICANE (TYPHOON)"),
	containsRule("fire", "FIRE", "WILDFIRE"),
}

// CanonicalizeLabel uppercases and trims a raw event-type label, then folds
// the rewrite rule chain over it. The chain is idempotent: running it on its
// own output returns the same label.
func CanonicalizeLabel(raw string) string {
	label := strings.ToUpper(strings.TrimSpace(raw))
	for _, rule := range rewriteRules {
		if rule.matches(label) {
			label = rule.apply(label)
		}
	}
	return label
}

// RewrittenLabel reports the canonicalized form of raw and whether any
// rewrite rule changed it beyond case and whitespace normalization.
func RewrittenLabel(raw string) (string, bool) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	label := CanonicalizeLabel(raw)
	return label, label != trimmed
}
