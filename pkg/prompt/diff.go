package prompt

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// UnifiedDiff returns a unified diff from current to proposed, or "" when
// they are equal.
func UnifiedDiff(current, proposed string) string {
	if current == proposed {
		return ""
	}
	return udiff.Unified("current", "proposed", withTrailingNewline(current), withTrailingNewline(proposed))
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
