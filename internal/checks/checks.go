// Package checks holds the quality check registry. Target checks compare a
// translated string against its source, source checks look at the source
// string alone and are therefore language independent.
package checks

import "strings"

// Check describes one quality check. Exactly one of Target or Source is set.
type Check struct {
	Code        string
	Name        string
	Description string
	Target      bool
	Source      bool

	// CheckTarget reports a failure for a translated unit. Source and target
	// contain all plural forms joined with model.PluralSeparator; most checks
	// only look at the first form.
	CheckTarget func(source, target, flags string) bool
	// CheckSource reports a failure for a source string.
	CheckSource func(source, flags string) bool
}

var registry []*Check

// Checks indexes all registered checks by code.
var Checks = map[string]*Check{}

func register(c *Check) {
	registry = append(registry, c)
	Checks[c.Code] = c
}

// Get looks up a check by code.
func Get(code string) (*Check, bool) {
	c, ok := Checks[code]
	return c, ok
}

// All returns the checks in registration order.
func All() []*Check {
	return registry
}

// RunTarget returns the codes of all target checks failing for the pair.
func RunTarget(source, target, flags string) []string {
	var failing []string
	for _, c := range registry {
		if !c.Target {
			continue
		}
		if c.CheckTarget(source, target, flags) {
			failing = append(failing, c.Code)
		}
	}
	return failing
}

// RunSource returns the codes of all source checks failing for the string.
func RunSource(source, flags string) []string {
	var failing []string
	for _, c := range registry {
		if !c.Source {
			continue
		}
		if c.CheckSource(source, flags) {
			failing = append(failing, c.Code)
		}
	}
	return failing
}

const pluralSeparator = "\x1e\x1e"

// firstForm strips everything after the first plural separator.
func firstForm(s string) string {
	if idx := strings.Index(s, pluralSeparator); idx >= 0 {
		return s[:idx]
	}
	return s
}

func forms(s string) []string {
	return strings.Split(s, pluralSeparator)
}

func hasFlag(flags, flag string) bool {
	for _, f := range strings.Split(flags, ",") {
		if strings.TrimSpace(f) == flag {
			return true
		}
	}
	return false
}
