package chat

import (
	"slices"
	"strings"
)

// Reply is one assistant message with follow-up prompts.
type Reply struct {
	Topic       string
	Content     string
	Suggestions []string
}

// Assistant answers intake questions from a fixed set of topics.
type Assistant struct {
	topics []Topic
}

func NewAssistant() *Assistant {
	return &Assistant{topics: topics}
}

// Greeting is the opening message of a conversation.
func (a *Assistant) Greeting() Reply {
	return clone(greeting)
}

// Reply matches the message against each topic's keywords as lower-cased
// substrings. The first topic with a hit answers; otherwise a general help
// reply is returned.
func (a *Assistant) Reply(message string) Reply {
	lower := strings.ToLower(message)

	for _, t := range a.topics {
		if slices.ContainsFunc(t.Keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			return Reply{Topic: t.Name, Content: t.Content, Suggestions: slices.Clone(t.Suggestions)}
		}
	}

	return clone(fallback)
}

func clone(r Reply) Reply {
	r.Suggestions = slices.Clone(r.Suggestions)
	return r
}
