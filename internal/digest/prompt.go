package digest

import (
	"encoding/json"
	"strings"
)

// The template is replaced with plain string substitution. The two
// placeholders are distinct tokens, so replacement order does not matter.
const summarizePrompt = "Summarize the following text `{snippets}`. " +
	"Write a concise or as descriptive as necessary summary and attempt to " +
	"answer the query: `{query}` as best as possible. " +
	"Use markdown formatting for longer responses."

// BuildPrompt assembles the summarization prompt from the search term and
// the snippet list. Both are inserted literally, special characters
// included.
func BuildPrompt(searchTerm string, snippets []string) string {
	prompt := strings.ReplaceAll(summarizePrompt, "{snippets}", formatSnippets(snippets))
	return strings.ReplaceAll(prompt, "{query}", searchTerm)
}

func formatSnippets(snippets []string) string {
	encoded, err := json.Marshal(snippets)
	if err != nil {
		// []string cannot fail to marshal; keep the fallback readable anyway.
		return strings.Join(snippets, " ")
	}
	return string(encoded)
}
