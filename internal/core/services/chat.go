package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure ChatOrchestrator implements the interface.
var _ driving.ChatService = (*ChatOrchestrator)(nil)

// Fixed user-visible replies.
const (
	// NoDocumentReply is returned while no document has been ingested.
	NoDocumentReply = "No document uploaded. Please upload a document first."

	// GenerationFailedReply is returned when generation fails outright.
	GenerationFailedReply = "Sorry, something went wrong. Please try again."

	// StreamFailedFragment is the single fragment emitted when a stream
	// fails midway.
	StreamFailedFragment = "Sorry, an error occurred during chat streaming."
)

// groundingPrompt instructs the model to answer only from the retrieved
// context and to mirror the question's language.
const groundingPrompt = "You are an intelligent assistant. " +
	"Answer the question clearly and accurately based only on the context below.\n\n" +
	"=== Context ===\n%s\n\n" +
	"=== Question ===\n%s\n\n" +
	"Respond in the same language as the question, using a natural and concise tone."

// ChatOrchestrator conducts a grounded conversation over one session.
// Until the session has an ingested document it answers with a fixed
// reply and never touches the retrieval or generation backends.
type ChatOrchestrator struct {
	session  *domain.Session
	sessions driving.SessionService
	llm      driven.LLMService
	opts     driven.GenerateOptions
}

// NewChatOrchestrator creates a chat service bound to one session.
func NewChatOrchestrator(
	session *domain.Session,
	sessions driving.SessionService,
	llm driven.LLMService,
	opts driven.GenerateOptions,
) *ChatOrchestrator {
	return &ChatOrchestrator{
		session:  session,
		sessions: sessions,
		llm:      llm,
		opts:     opts,
	}
}

// Ask answers a question, blocking until the full answer is ready.
func (c *ChatOrchestrator) Ask(ctx context.Context, question string) string {
	if !c.session.Ready() {
		return NoDocumentReply
	}

	c.beginExchange(question)

	prompt, err := c.buildPrompt(ctx, question)
	if err != nil {
		logger.Error("Building prompt: %v", err)
		return c.finishExchange(GenerationFailedReply)
	}

	answer, err := c.llm.Generate(ctx, prompt, c.opts)
	if err != nil {
		logger.Error("Generation failed: %v", err)
		return c.finishExchange(GenerationFailedReply)
	}

	return c.finishExchange(answer)
}

// Stream answers a question as a lazy sequence of text fragments. The
// accumulated response is persisted once the stream ends; a mid-stream
// failure emits one fallback fragment and still persists the partial.
// Consumer abandonment (context cancellation) also persists the partial.
func (c *ChatOrchestrator) Stream(ctx context.Context, question string) <-chan string {
	out := make(chan string)

	if !c.session.Ready() {
		go func() {
			defer close(out)
			select {
			case out <- NoDocumentReply:
			case <-ctx.Done():
			}
		}()
		return out
	}

	c.beginExchange(question)

	go func() {
		defer close(out)

		prompt, err := c.buildPrompt(ctx, question)
		if err != nil {
			logger.Error("Building prompt: %v", err)
			c.emit(ctx, out, GenerationFailedReply)
			c.finishExchange(GenerationFailedReply)
			return
		}

		fragments, errs, err := c.llm.Stream(ctx, prompt, c.opts)
		if err != nil {
			logger.Error("Starting stream: %v", err)
			c.emit(ctx, out, GenerationFailedReply)
			c.finishExchange(GenerationFailedReply)
			return
		}

		var answer strings.Builder
		for fragment := range fragments {
			answer.WriteString(fragment)
			if !c.emit(ctx, out, fragment) {
				// Consumer gone: keep what was generated so far.
				c.finishExchange(answer.String())
				return
			}
		}

		if err := <-errs; err != nil {
			logger.Error("Stream failed midway: %v", err)
			c.emit(ctx, out, StreamFailedFragment)
		}
		c.finishExchange(answer.String())
	}()

	return out
}

// ClearHistory empties the in-memory transcript. Persisted history is
// untouched until the next save.
func (c *ChatOrchestrator) ClearHistory() {
	c.session.Transcript.Clear()
}

// beginExchange records the user turn and persists it immediately, so the
// question survives even if answering fails.
func (c *ChatOrchestrator) beginExchange(question string) {
	c.sessions.SummarizeTitle(c.session, question)
	c.session.Transcript.AddHuman(question)
	if err := c.sessions.SaveTranscript(c.session); err != nil {
		logger.Warn("Persisting transcript: %v", err)
	}
}

// finishExchange records the assistant turn, persists and returns it.
func (c *ChatOrchestrator) finishExchange(answer string) string {
	c.session.Transcript.AddAI(answer)
	if err := c.sessions.SaveTranscript(c.session); err != nil {
		logger.Warn("Persisting transcript: %v", err)
	}
	return answer
}

// buildPrompt retrieves context for the question and renders the
// grounding prompt.
func (c *ChatOrchestrator) buildPrompt(ctx context.Context, question string) (string, error) {
	retriever := c.sessions.Retriever(c.session)
	if retriever == nil {
		return "", fmt.Errorf("%w: session has no retriever", domain.ErrNoDocument)
	}

	outcome, err := retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	if outcome.Degraded {
		logger.Warn("Retrieval degraded: %s", outcome.Reason)
	}
	logger.Debug("Retrieved %d passages", len(outcome.Results))

	passages := make([]string, len(outcome.Results))
	for i, r := range outcome.Results {
		passages[i] = r.Chunk.Content
	}
	contextBlock := strings.Join(passages, "\n\n")

	return fmt.Sprintf(groundingPrompt, contextBlock, question), nil
}

// emit sends one fragment, reporting false when the consumer is gone.
func (c *ChatOrchestrator) emit(ctx context.Context, out chan<- string, fragment string) bool {
	select {
	case out <- fragment:
		return true
	case <-ctx.Done():
		return false
	}
}
