package weblate

import "fmt"

// Version is the released version of the platform.
const Version = "1.6"

// Generator identifies this software in generated file headers.
func Generator() string {
	return "Weblate " + Version
}

// DocURL returns a link into the documentation for this release.
func DocURL(page, anchor string) string {
	url := fmt.Sprintf("http://weblate.readthedocs.org/en/weblate-%s/%s.html", Version, page)
	if anchor != "" {
		url += "#" + anchor
	}
	return url
}
