// Package nav describes the client's views and renders the header bar.
package nav

import (
	"fmt"
	"strings"
)

const Brand = "CareerNavigator-AI"

type Route struct {
	Path  string
	Label string
}

// Routes are the primary views in header order.
var Routes = []Route{
	{Path: "/dashboard", Label: "Dashboard"},
	{Path: "/assessment", Label: "Assessment"},
	{Path: "/courses", Label: "Courses"},
	{Path: "/jobs", Label: "Jobs"},
	{Path: "/chat", Label: "AI Assistant"},
}

// ProfileRoute is linked from the user's name rather than the route list.
var ProfileRoute = Route{Path: "/profile", Label: "Profile"}

// IsActive reports whether path is the current view. Matching is exact.
func IsActive(current, path string) bool {
	return current == path
}

// Highlighter decorates the active label, e.g. with terminal colors.
type Highlighter func(label string) string

func brackets(label string) string { return "[" + label + "]" }

// Render draws the header bar for the current view. A nil highlighter wraps
// the active label in brackets.
func Render(current string, points int, userName string, hl Highlighter) string {
	if hl == nil {
		hl = brackets
	}
	var b strings.Builder
	b.WriteString(Brand)
	b.WriteString("  ")
	for i, r := range Routes {
		if i > 0 {
			b.WriteString(" | ")
		}
		if IsActive(current, r.Path) {
			b.WriteString(hl(r.Label))
		} else {
			b.WriteString(r.Label)
		}
	}
	fmt.Fprintf(&b, "    ⭐ %d points", points)
	if userName != "" {
		name := "👤 " + userName
		if IsActive(current, ProfileRoute.Path) {
			name = hl(name)
		}
		b.WriteString("  " + name)
	}
	return b.String()
}
