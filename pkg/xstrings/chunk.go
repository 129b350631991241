package xstrings

// Chunk splits text into pieces of at most maxLen runes. Used for outbound
// messaging channels with hard message-size limits (Telegram caps at 4096).
// Empty input yields no chunks, so nothing gets sent for it.
func Chunk(text string, maxLen int) []string {
	if len(text) == 0 {
		return nil
	}
	if maxLen <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/maxLen+1)
	for start := 0; start < len(runes); start += maxLen {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Truncate shortens text to at most maxLen runes, appending an ellipsis when
// anything was cut.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if maxLen <= 0 || len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "…"
}
