package checks

import "strings"

func init() {
	register(&Check{
		Code:        "optional_plural",
		Name:        "Optional plural",
		Description: "The string is optionally used as plural, but not using plural forms",
		Source:      true,
		CheckSource: checkOptionalPlural,
	})
	register(&Check{
		Code:        "ellipsis",
		Name:        "Ellipsis",
		Description: "The string uses three dots (...) instead of an ellipsis character (…)",
		Source:      true,
		CheckSource: checkEllipsis,
	})
}

func checkOptionalPlural(source, flags string) bool {
	if strings.Contains(source, pluralSeparator) {
		return false
	}
	return strings.Contains(source, "(s)")
}

func checkEllipsis(source, flags string) bool {
	return strings.HasSuffix(strings.TrimRight(firstForm(source), " "), "...")
}
