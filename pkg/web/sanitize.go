package web

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// names end up in a shared record that other clients render, so no markup survives
var namePolicy = bluemonday.StrictPolicy()

// cleanName strips tags from a typed name and returns plain text
func cleanName(raw string) string {
	return html.UnescapeString(namePolicy.Sanitize(raw))
}
