package rubric

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/snow-ghost/evalbench/core"
)

// historyExcerptLen bounds how much of each prior message is quoted in
// the scoring prompt.
const historyExcerptLen = 150

// BuildPrompt constructs the deterministic scoring prompt for one
// question/response pair. history is the conversation before the
// current exchange; when non-empty it is rendered as a numbered
// transcript with each message truncated to its first 150 characters.
// The prompt fixes the rubric definitions and the strict output grammar
// ParseReply expects, so no structured-output mode is needed.
func BuildPrompt(scenarioID string, questionNum int, question, response string, history []core.Message) string {
	var b strings.Builder

	b.WriteString("You are scoring one exchange from a conversational benchmark.\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n", scenarioID)
	fmt.Fprintf(&b, "Question number: %d\n\n", questionNum)

	if len(history) > 0 {
		b.WriteString("Conversation so far (truncated):\n")
		for i, msg := range history {
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, msg.Role, excerpt(msg.Content))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "QUESTION:\n%s\n\n", question)
	fmt.Fprintf(&b, "RESPONSE:\n%s\n\n", response)

	b.WriteString("Score the response on each dimension below, 0-5:\n\n")
	for _, dim := range Dimensions {
		anchors := dimensionAnchors[dim]
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(dim))
		for score, anchor := range anchors {
			fmt.Fprintf(&b, "  %d = %s\n", score, anchor)
		}
		b.WriteString("\n")
	}

	b.WriteString("Reply in exactly this format, one block per dimension, in order:\n\n")
	for _, dim := range Dimensions {
		fmt.Fprintf(&b, "%s: <0-5>\nJUSTIFICATION: <one or two sentences>\n\n", strings.ToUpper(dim))
	}
	b.WriteString("CONFIDENCE: <HIGH|MEDIUM|LOW>\n")

	return b.String()
}

// excerpt returns the first historyExcerptLen bytes of s, trimmed back
// to a rune boundary so the cut never splits a UTF-8 sequence.
func excerpt(s string) string {
	if len(s) <= historyExcerptLen {
		return s
	}
	cut := historyExcerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
