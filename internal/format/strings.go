package format

// Truncate shortens s to at most maxLen characters, marking the cut
// with an ellipsis. Used to keep subject and sender columns readable in
// table output.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
