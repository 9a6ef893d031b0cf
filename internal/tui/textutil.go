package tui

// truncateEnd shortens s to at most max characters, appending an ellipsis
// if truncation occurs. Handles negative or tiny limits gracefully.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle shortens s to at most limit characters by preserving the
// start and end of the string with a single ellipsis in the middle.
// Useful for URLs where both ends carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left <= 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}

// marqueeWindow returns width characters of text starting at offset,
// wrapping around to the start so the scroll never runs dry.
func marqueeWindow(text string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(text)
	n := len(r)
	if n == 0 {
		return ""
	}
	if n <= width {
		return text
	}
	start := offset % n
	if start < 0 {
		start += n
	}
	out := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		out = append(out, r[(start+i)%n])
	}
	return string(out)
}
