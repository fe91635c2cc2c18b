package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/klappstuhl/stalmail/internal/outfmt"
)

func newTabWriter() *tabwriter.Writer {
	return outfmt.NewTabWriter()
}

// printNoResults writes an empty-result notice to stderr so stdout stays
// clean for piping.
func printNoResults(template string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(template, args...))
}

// sanitizeTab replaces tab characters with spaces for clean tabwriter output
func sanitizeTab(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
