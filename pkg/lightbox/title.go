package lightbox

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	imagesPrefix = regexp.MustCompile(`(?i)^/?images/`)
	extension    = regexp.MustCompile(`\.\w+$`)
	sizeSuffix   = regexp.MustCompile(`(?i)\s+\d+[xх]\d+$`) // latin x or cyrillic х
	lisPrefix    = regexp.MustCompile(`(?i)^LIS\s+`)
	whitespaces  = regexp.MustCompile(`\s+`)
)

// CleanTitle turns an image filename into a human readable title.
//
// "/images/LIS_Portrait_90х110.JPG" becomes "Portrait".
func CleanTitle(filename string) string {
	if filename == "" {
		return ""
	}

	t := imagesPrefix.ReplaceAllString(filename, "")
	t = extension.ReplaceAllString(t, "")
	t = strings.ReplaceAll(t, "_", " ")
	t = sizeSuffix.ReplaceAllString(t, "")
	t = lisPrefix.ReplaceAllString(t, "")
	t = whitespaces.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// FilenameFromURL returns the decoded last path segment of an image URL.
func FilenameFromURL(u string) string {
	if u == "" {
		return ""
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if d, err := url.PathUnescape(u); err == nil {
		u = d
	}
	parts := strings.Split(u, "/")
	return parts[len(parts)-1]
}
