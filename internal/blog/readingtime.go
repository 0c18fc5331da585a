package blog

import "strings"

const wordsPerMinute = 200

// ReadingMinutes estimates reading time as ceil(words / 200), never below 1.
func ReadingMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
