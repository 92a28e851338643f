package chat

// DefaultPersonaName is the preset applied to new sessions.
const DefaultPersonaName = "Helpful Assistant (Default)"

// Personas enumerates the preset system prompts. A session may also carry
// a freely authored instruction instead of a preset.
var Personas = map[string]string{
	"Helpful Assistant (Default)": "You are a helpful AI assistant. Provide clear, concise, and accurate responses.",
	"Technical Expert":            "You are a technical expert. Provide detailed, accurate technical information and explanations.",
	"Creative Writer":             "You are a creative writer. Respond with imaginative, engaging, and creative content.",
	"Formal Business Assistant":   "You are a formal business assistant. Provide professional, concise, and business-appropriate responses.",
	"Casual Friendly Helper":      "You are a casual, friendly helper. Respond in a warm, conversational tone.",
}

// PersonaNames returns the preset names in a stable order.
func PersonaNames() []string {
	return []string{
		"Helpful Assistant (Default)",
		"Technical Expert",
		"Creative Writer",
		"Formal Business Assistant",
		"Casual Friendly Helper",
	}
}

// LookupPersona resolves a preset name to its instruction.
func LookupPersona(name string) (string, bool) {
	instruction, ok := Personas[name]
	return instruction, ok
}
