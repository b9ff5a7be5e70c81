package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// Retriever answers a natural-language query with ranked passages.
// Dense-only and hybrid-plus-rerank are variants behind this one
// interface; degradation is reported inside the outcome, not as an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (domain.RetrievalOutcome, error)
}
