package assistant

// Profile captures the assistant identity shown on the chat page and fed to the model.
type Profile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Tone         string   `json:"tone"`
	Greeting     string   `json:"greeting"`
	SystemPrompt string   `json:"systemPrompt,omitempty"`
	Disclaimers  []string `json:"disclaimers,omitempty"`
	Expertise    []string `json:"expertise,omitempty"`
}

// DefaultID is the profile used when ASSISTANT_ID is not set.
const DefaultID = "genie"

// Seed provides the built-in profiles.
func Seed() []Profile {
	return []Profile{
		{
			ID:       "genie",
			Name:     "Genie",
			Title:    "Tax Genie",
			Tone:     "precise, friendly, concise",
			Greeting: "How can I help you today?",
			SystemPrompt: "You are Genie, an assistant for tax and company research questions. " +
				"Answer using publicly available information only and say so when you are unsure.",
			Disclaimers: []string{
				"Tax Genie and Genie's outputs may contain errors or inaccuracies, so double-check all outputs before using them for any business activities.",
				"Tax Genie and Genie work with publicly available data for company-related tasks and should not be used with confidential and/or sensitive information.",
				"Adhere to ethical standards and respect clients' policies when using Tax Genie and Genie.",
				"Usage of this tool is monitored. Please use it responsibly.",
			},
			Expertise: []string{"tax", "company research", "public filings"},
		},
		{
			ID:       "plain",
			Name:     "Assistant",
			Title:    "General assistant",
			Tone:     "neutral",
			Greeting: "How can I help you today?",
		},
	}
}
