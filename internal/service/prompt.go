package service

import (
	"strings"

	"github.com/pilcrow-ai/pilcrow/internal/domain"
)

// contextSeparator joins retrieved chunks inside the prompt's context block.
const contextSeparator = "\n---\n"

// BuildPrompt assembles the single text block handed to the generator:
// system framing, prior chat history as "role: content" lines in original
// order, the retrieved context, and the latest question. Everything rides
// in one user-role message; there is no separate system message.
func BuildPrompt(query string, contextChunks []string, history []domain.ChatMessage) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI assistant. Use the following context to answer the user's question.\n")
	b.WriteString("If the context doesn't contain the answer, state that you don't have enough information.\n")
	b.WriteString("Be concise and direct.\n\n")

	b.WriteString("PREVIOUS CHAT HISTORY:\n")
	for _, msg := range history {
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("CONTEXT FROM KNOWLEDGE BASE:\n")
	b.WriteString(strings.Join(contextChunks, contextSeparator))
	b.WriteString("\n\n")

	b.WriteString("LATEST USER'S QUESTION:\n")
	b.WriteString(query)
	b.WriteString("\n\n")

	b.WriteString("YOUR ANSWER:\n")

	return b.String()
}
