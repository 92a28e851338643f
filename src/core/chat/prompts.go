package chat

import (
	"bytes"
	"fmt"
	"text/template"
)

// RAGPromptTmpl combines the persona instruction, the retrieved context
// and the question into a single generation prompt.
const RAGPromptTmpl = `{{.Persona}}

Use the following pieces of context to answer the question at the end.
If you don't know the answer based on the context, just say that you don't know, don't try to make up an answer.

Context: {{.Context}}

Question: {{.Question}}

Answer: `

// SimplifiedRAGPromptTmpl omits the persona instruction. It is used for
// the single retry after a RAG generation failure, to isolate whether the
// persona template itself caused the failure.
const SimplifiedRAGPromptTmpl = `Use the following pieces of context to answer the question at the end.
If you don't know the answer based on the context, just say that you don't know, don't try to make up an answer.

Context: {{.Context}}

Question: {{.Question}}

Answer: `

// PlainPromptTmpl carries the rolling conversation memory and the new
// question in non-RAG mode; the persona travels as the system message.
const PlainPromptTmpl = `{{if .History}}Previous conversation:
{{.History}}

{{end}}Question: {{.Question}}
Answer: `

// PromptData holds all the data needed for prompt template execution.
type PromptData struct {
	Persona  string
	Context  string
	History  string
	Question string
}

func executeTemplate(tmpl string, data PromptData) (string, error) {
	var buf bytes.Buffer
	t := template.Must(template.New("prompt").Parse(tmpl))
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// BuildRAGPrompt renders the full RAG prompt with the persona instruction.
func BuildRAGPrompt(persona, contextText, question string) (string, error) {
	return executeTemplate(RAGPromptTmpl, PromptData{
		Persona:  persona,
		Context:  contextText,
		Question: question,
	})
}

// BuildSimplifiedRAGPrompt renders the persona-free retry prompt.
func BuildSimplifiedRAGPrompt(contextText, question string) (string, error) {
	return executeTemplate(SimplifiedRAGPromptTmpl, PromptData{
		Context:  contextText,
		Question: question,
	})
}

// BuildPlainPrompt renders the conversational prompt from the rendered
// memory buffer and the new question.
func BuildPlainPrompt(history, question string) (string, error) {
	return executeTemplate(PlainPromptTmpl, PromptData{
		History:  history,
		Question: question,
	})
}
