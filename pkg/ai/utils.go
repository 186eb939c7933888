package ai

import (
	"regexp"
	"strings"
)

var (
	thinkRegex        = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkingRegex     = regexp.MustCompile(`(?is)<thinking>.*?</thinking>`)
	reasoningRegex    = regexp.MustCompile(`(?is)<reasoning>.*?</reasoning>`)
	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// StripThinkingTags removes reasoning blocks some models prepend to their
// answer, e.g. <think>...</think>, and trims the rest.
func StripThinkingTags(content string) string {
	content = thinkRegex.ReplaceAllString(content, "")
	content = thinkingRegex.ReplaceAllString(content, "")
	content = reasoningRegex.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	return multiNewlineRegex.ReplaceAllString(content, "\n\n")
}
