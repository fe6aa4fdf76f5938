package extract

// snippet returns a shortened version of text for logging and debug context.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
