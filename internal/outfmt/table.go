package outfmt

import (
	"os"
	"strings"
	"text/tabwriter"
)

// NewTabWriter returns a stdout tabwriter with the column settings all
// table commands share.
func NewTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// SanitizeTab strips tab characters from cell values so server-supplied
// strings cannot break column alignment.
func SanitizeTab(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
