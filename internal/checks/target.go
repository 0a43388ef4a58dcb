package checks

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

func init() {
	register(&Check{
		Code:        "same",
		Name:        "Unchanged translation",
		Description: "Source and translated strings are same",
		Target:      true,
		CheckTarget: checkSame,
	})
	register(&Check{
		Code:        "begin_newline",
		Name:        "Starting newline",
		Description: "Source and translated do not both start with a newline",
		Target:      true,
		CheckTarget: checkBeginNewline,
	})
	register(&Check{
		Code:        "end_newline",
		Name:        "Trailing newline",
		Description: "Source and translated do not both end with a newline",
		Target:      true,
		CheckTarget: checkEndNewline,
	})
	register(&Check{
		Code:        "begin_space",
		Name:        "Starting spaces",
		Description: "Source and translation do not both start with same number of spaces",
		Target:      true,
		CheckTarget: checkBeginSpace,
	})
	register(&Check{
		Code:        "end_space",
		Name:        "Trailing space",
		Description: "Source and translated do not both end with a space",
		Target:      true,
		CheckTarget: checkEndSpace,
	})
	register(&Check{
		Code:        "end_stop",
		Name:        "Trailing stop",
		Description: "Source and translated do not both end with a full stop",
		Target:      true,
		CheckTarget: endingCheck("."),
	})
	register(&Check{
		Code:        "end_colon",
		Name:        "Trailing colon",
		Description: "Source and translated do not both end with a colon",
		Target:      true,
		CheckTarget: endingCheck(":"),
	})
	register(&Check{
		Code:        "end_question",
		Name:        "Trailing question",
		Description: "Source and translated do not both end with a question mark",
		Target:      true,
		CheckTarget: endingCheck("?"),
	})
	register(&Check{
		Code:        "end_exclamation",
		Name:        "Trailing exclamation",
		Description: "Source and translated do not both end with an exclamation mark",
		Target:      true,
		CheckTarget: endingCheck("!"),
	})
	register(&Check{
		Code:        "end_ellipsis",
		Name:        "Trailing ellipsis",
		Description: "Source and translation do not both end with an ellipsis",
		Target:      true,
		CheckTarget: endingCheck("…"),
	})
	register(&Check{
		Code:        "python_format",
		Name:        "Python format",
		Description: "Format string does not match source",
		Target:      true,
		CheckTarget: formatCheck("python-format", pythonFormatRe),
	})
	register(&Check{
		Code:        "php_format",
		Name:        "PHP format",
		Description: "Format string does not match source",
		Target:      true,
		CheckTarget: formatCheck("php-format", phpFormatRe),
	})
	register(&Check{
		Code:        "c_format",
		Name:        "C format",
		Description: "Format string does not match source",
		Target:      true,
		CheckTarget: formatCheck("c-format", cFormatRe),
	})
	register(&Check{
		Code:        "plurals",
		Name:        "Missing plurals",
		Description: "Some plural forms are not translated",
		Target:      true,
		CheckTarget: checkPlurals,
	})
	register(&Check{
		Code:        "zero_width_space",
		Name:        "Zero-width space",
		Description: "Translation contains extra zero-width space character",
		Target:      true,
		CheckTarget: checkZeroWidthSpace,
	})
}

func checkSame(source, target, flags string) bool {
	src := firstForm(source)
	if len([]rune(src)) < 2 {
		return false
	}
	// Strings with no letters (markup, numbers, placeholders) are expected to
	// stay unchanged.
	hasLetter := false
	for _, r := range src {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	for _, form := range forms(target) {
		if form == src {
			return true
		}
	}
	return false
}

func checkBeginNewline(source, target, flags string) bool {
	return strings.HasPrefix(firstForm(source), "\n") != strings.HasPrefix(firstForm(target), "\n")
}

func checkEndNewline(source, target, flags string) bool {
	return strings.HasSuffix(firstForm(source), "\n") != strings.HasSuffix(firstForm(target), "\n")
}

func checkBeginSpace(source, target, flags string) bool {
	return leadingSpaces(firstForm(source)) != leadingSpaces(firstForm(target))
}

func checkEndSpace(source, target, flags string) bool {
	return strings.HasSuffix(firstForm(source), " ") != strings.HasSuffix(firstForm(target), " ")
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}

// endingCheck builds a punctuation agreement check for the given suffix.
func endingCheck(suffix string) func(source, target, flags string) bool {
	return func(source, target, flags string) bool {
		src := strings.TrimRight(firstForm(source), " \n")
		tgt := strings.TrimRight(firstForm(target), " \n")
		if src == "" || tgt == "" {
			return false
		}
		return strings.HasSuffix(src, suffix) != strings.HasSuffix(tgt, suffix)
	}
}

var (
	pythonFormatRe = regexp.MustCompile(`%(\([^)]+\))?[-+ #0-9.*]*[sdiouxXeEfgGc%]`)
	phpFormatRe    = regexp.MustCompile(`%[-+ 0-9.']*[bcdeEfFgGosuxX%]`)
	cFormatRe      = regexp.MustCompile(`%([0-9]+\$)?[-+ #0-9.*]*(hh|ll|[hlLqjzt])?[diouxXeEfgGcsp%]`)
)

// formatCheck verifies the placeholder sets of source and target agree. It
// only fires on units flagged with the matching gettext format flag.
func formatCheck(flag string, re *regexp.Regexp) func(source, target, flags string) bool {
	return func(source, target, flags string) bool {
		if !hasFlag(flags, flag) {
			return false
		}
		want := formatTokens(re, firstForm(source))
		for _, form := range forms(target) {
			if form == "" {
				continue
			}
			got := formatTokens(re, form)
			if !equalTokens(want, got) {
				return true
			}
		}
		return false
	}
}

func formatTokens(re *regexp.Regexp, s string) []string {
	tokens := re.FindAllString(s, -1)
	out := tokens[:0]
	for _, t := range tokens {
		if t == "%%" {
			continue
		}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func checkPlurals(source, target, flags string) bool {
	if !strings.Contains(target, pluralSeparator) {
		return false
	}
	for _, form := range forms(target) {
		if form == "" {
			return true
		}
	}
	return false
}

func checkZeroWidthSpace(source, target, flags string) bool {
	return strings.ContainsRune(target, '​') && !strings.ContainsRune(source, '​')
}
