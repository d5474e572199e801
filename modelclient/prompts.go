package modelclient

import "fmt"

// promptKey selects a system prompt by language and dialog mode.
type promptKey struct {
	Language string
	Mode     string
}

const (
	ModeAnswer    = "answer"
	ModeClarify   = "clarify"
	ModeEscalate  = "escalate"
)

var systemPrompts = map[promptKey]string{
	{"en", ModeAnswer}: "You are a support assistant. Answer strictly using the provided context. " +
		"If the context does not contain the answer, say so instead of guessing.",
	{"en", ModeClarify}: "You are a support assistant. The user's question is ambiguous. " +
		"Ask one concise clarifying question instead of answering.",
	{"en", ModeEscalate}: "You are a support assistant. Summarize the user's issue and the reason " +
		"it needs a human agent, for handoff.",
	{"es", ModeAnswer}: "Eres un asistente de soporte. Responde usando estrictamente el contexto " +
		"proporcionado. Si el contexto no contiene la respuesta, dilo en lugar de adivinar.",
	{"es", ModeClarify}: "Eres un asistente de soporte. La pregunta del usuario es ambigua. " +
		"Haz una pregunta aclaratoria concisa en lugar de responder.",
	{"es", ModeEscalate}: "Eres un asistente de soporte. Resume el problema del usuario y la razon " +
		"por la que necesita un agente humano.",
}

// SystemPrompt returns the system prompt for a (language, mode) pair,
// falling back to English when the language isn't configured.
func SystemPrompt(language, mode string) string {
	if p, ok := systemPrompts[promptKey{language, mode}]; ok {
		return p
	}
	if p, ok := systemPrompts[promptKey{"en", mode}]; ok {
		return p
	}
	return systemPrompts[promptKey{"en", ModeAnswer}]
}

// BuildContextBlock renders merged context pairs into a single prompt block.
func BuildContextBlock(pairs []ContextPair) string {
	out := ""
	for i, p := range pairs {
		out += fmt.Sprintf("[%d] Q: %s\nA: %s\n\n", i+1, p.Question, p.Answer)
	}
	return out
}

// ContextPair is one retrieved pair rendered into the prompt.
type ContextPair struct {
	Question string
	Answer   string
}
