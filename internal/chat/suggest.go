// ABOUTME: Fuzzy "did you mean" suggestions for unknown tool names
// ABOUTME: Advisory only; the server stays authoritative over its tool set

package chat

import "github.com/sahilm/fuzzy"

// suggestTool returns the closest known tool name to the requested one, or
// "" when nothing matches. Used to log an advisory when the model asks for
// a tool that was not in the startup listing.
func suggestTool(requested string, known []string) string {
	for _, name := range known {
		if name == requested {
			return ""
		}
	}

	matches := fuzzy.Find(requested, known)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
