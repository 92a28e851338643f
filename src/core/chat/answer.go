package chat

import (
	"context"
	"fmt"
	"strings"

	"pdfchat/src/core/vectorstore"
	"pdfchat/src/log"
)

const DefaultRetrievalK = 3

// Fixed guidance messages. They are user-facing content, not failures.
const (
	MsgNotInitialized  = "No model initialized. Please select and initialize a model first."
	MsgNothingIngested = "RAG is enabled but no PDF has been processed. Please process a PDF first or disable RAG."
)

// Answerer runs the answering pipeline. All externally caused failures
// are recovered here and returned as failure-kind answers; nothing
// propagates as an error to the caller.
type Answerer struct {
	store vectorstore.Store
	k     int
}

func NewAnswerer(store vectorstore.Store, retrievalK int) *Answerer {
	if retrievalK <= 0 {
		retrievalK = DefaultRetrievalK
	}
	return &Answerer{store: store, k: retrievalK}
}

// Answer resolves a question against the session state. With useRAG it
// retrieves the top-k chunks from the session's active index and
// conditions a single generation on them; otherwise it generates from the
// persona plus the rolling conversation memory. The vector store is never
// queried when useRAG is false.
func (a *Answerer) Answer(ctx context.Context, sess *Session, question string, useRAG bool) *Answer {
	provider := sess.Provider()
	if provider == nil {
		return &Answer{Kind: KindGuidance, Text: MsgNotInitialized, UsedRAG: useRAG}
	}

	if useRAG {
		if sess.ActiveIndex() == "" {
			return &Answer{Kind: KindGuidance, Text: MsgNothingIngested, UsedRAG: true}
		}
		return a.answerWithRetrieval(ctx, provider, sess, question)
	}
	return a.answerConversational(ctx, provider, sess, question)
}

// answerWithRetrieval runs the RAG path. On any failure it retries once
// with a simplified prompt omitting the persona instruction; if the retry
// also fails, the error is surfaced as the answer text with no sources.
func (a *Answerer) answerWithRetrieval(ctx context.Context, provider LLMProvider, sess *Session, question string) *Answer {
	index := sess.ActiveIndex()

	text, sources, err := a.retrieveAndGenerate(ctx, provider, index, sess.Persona(), question)
	if err == nil {
		return &Answer{Kind: KindAnswer, Text: text, Sources: sources, Model: provider.Name(), UsedRAG: true}
	}
	log.Error(err, "rag generation failed, retrying with simplified prompt", "session", sess.ID)

	text, sources, retryErr := a.retrieveAndGenerate(ctx, provider, index, "", question)
	if retryErr == nil {
		return &Answer{Kind: KindAnswer, Text: text, Sources: sources, Model: provider.Name(), UsedRAG: true}
	}
	log.Error(retryErr, "rag retry failed", "session", sess.ID)
	return &Answer{
		Kind:    KindFailure,
		Text:    fmt.Sprintf("RAG Error: %v", retryErr),
		Model:   provider.Name(),
		UsedRAG: true,
	}
}

// retrieveAndGenerate performs one embed-retrieve-generate attempt. An
// empty persona selects the simplified prompt.
func (a *Answerer) retrieveAndGenerate(ctx context.Context, provider LLMProvider, index, persona, question string) (string, []Source, error) {
	vector, err := provider.GetEmbedding(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed question: %w", err)
	}

	matches, err := a.store.Query(ctx, index, vector, a.k)
	if err != nil {
		return "", nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	contextText := joinMatches(matches)
	var prompt string
	if persona != "" {
		prompt, err = BuildRAGPrompt(persona, contextText, question)
	} else {
		prompt, err = BuildSimplifiedRAGPrompt(contextText, question)
	}
	if err != nil {
		return "", nil, err
	}

	text, err := provider.Generate(ctx, "", prompt)
	if err != nil {
		return "", nil, fmt.Errorf("generation failed: %w", err)
	}

	sources := make([]Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, Source{Text: m.Text, Score: m.Score})
	}
	return text, sources, nil
}

// answerConversational runs the plain path: persona as system message,
// rolling memory plus the new question as the prompt. No retrieval.
func (a *Answerer) answerConversational(ctx context.Context, provider LLMProvider, sess *Session, question string) *Answer {
	prompt, err := BuildPlainPrompt(sess.MemoryPrompt(), question)
	if err == nil {
		var text string
		text, err = provider.Generate(ctx, sess.Persona(), prompt)
		if err == nil {
			return &Answer{Kind: KindAnswer, Text: text, Model: provider.Name(), UsedRAG: false}
		}
	}
	log.Error(err, "conversational generation failed", "session", sess.ID)
	return &Answer{
		Kind:  KindFailure,
		Text:  fmt.Sprintf("Error generating response: %v", err),
		Model: provider.Name(),
	}
}

func joinMatches(matches []vectorstore.Match) string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n\n")
}
