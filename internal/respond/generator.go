package respond

import (
	"fmt"
	"strings"
)

var (
	greetingWords    = []string{"hello", "hi", "hey"}
	questionWords    = []string{"what", "how", "why", "when", "where", "who"}
	explanationWords = []string{"explain", "describe", "tell me"}
	helpWords        = []string{"help", "assist", "support"}
)

// Generate produces a deterministic, rule-based response for a prompt.
// Stand-in for a real LLM call: branches on keyword presence and echoes the
// prompt into a templated reply. Total function, no side effects.
func Generate(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, greetingWords):
		return fmt.Sprintf("Hello! You said: '%s'. How can I assist you today?", text)
	case containsAny(lower, questionWords):
		return fmt.Sprintf("That's an interesting question about: '%s'. Let me help you with that. Based on my analysis, here's what I can tell you...", text)
	case containsAny(lower, explanationWords):
		return fmt.Sprintf("I'd be happy to explain. Regarding '%s', here's a comprehensive overview of the topic...", text)
	case containsAny(lower, helpWords):
		return fmt.Sprintf("I'm here to help with '%s'. Let me provide you with some guidance on this matter...", text)
	default:
		return fmt.Sprintf("Thank you for your input: '%s'. I've processed your request and here's my response. This is a simulated answer that demonstrates the system's capability to generate contextual responses.", text)
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
