package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/genie/internal/model/assistant"
)

// contextRules are appended to every system prompt.
var contextRules = []string{
	"Answer in the language the user writes in.",
	"Keep answers short unless the user asks for detail.",
	"Never ask the user for confidential or client-sensitive information.",
}

// BuildSystemPrompt creates the system prompt for a profile.
func BuildSystemPrompt(profile *assistant.Profile) string {
	if profile == nil {
		return strings.Join(contextRules, "\n")
	}

	var builder strings.Builder
	if profile.SystemPrompt != "" {
		builder.WriteString(profile.SystemPrompt)
	} else {
		builder.WriteString(fmt.Sprintf("You are %s, %s.", profile.Name, strings.ToLower(profile.Title)))
	}

	if profile.Tone != "" {
		builder.WriteString("\n\nTone: ")
		builder.WriteString(profile.Tone)
	}
	if len(profile.Expertise) > 0 {
		builder.WriteString("\nAreas of focus: ")
		builder.WriteString(strings.Join(profile.Expertise, ", "))
	}

	builder.WriteString("\n\nRules:\n- ")
	builder.WriteString(strings.Join(contextRules, "\n- "))
	return builder.String()
}
