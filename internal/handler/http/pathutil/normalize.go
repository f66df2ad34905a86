// Package pathutil maps request paths onto route templates for metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched is the label used for paths outside the known route set.
const Unmatched = "unmatched"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// Any segment counts as an id so malformed ids (which are rejected with 400)
// do not mint new label values.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/posts/[^/]+$`), Template: "/posts/:id"},
	{Pattern: regexp.MustCompile(`^/posts/[^/]+/comments$`), Template: "/posts/:id/comments"},
}

var staticPaths = map[string]struct{}{
	"/":         {},
	"/posts":    {},
	"/comments": {},
	"/health":   {},
	"/live":     {},
	"/metrics":  {},
}

// NormalizePath converts a request path to its route template.
//
//	NormalizePath("/posts/42")           // "/posts/:id"
//	NormalizePath("/posts/42/comments")  // "/posts/:id/comments"
//	NormalizePath("/comments?postId=1")  // "/comments"
//	NormalizePath("/posts/")             // "/posts"
//	NormalizePath("/wp-login.php")       // "unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return Unmatched
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
