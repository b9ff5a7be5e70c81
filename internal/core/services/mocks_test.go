package services

import (
	"context"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// fakeEmbedder produces deterministic letter-frequency vectors so tests
// can reason about similarity without a model server.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vec := make([]float32, 8)
	for _, r := range strings.ToLower(text) {
		vec[int(r)%8]++
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 8 }
func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

// fakeLoader returns canned units.
type fakeLoader struct {
	units []domain.RawUnit
	tag   domain.FormatTag
	err   error
}

func (f *fakeLoader) Load(_ context.Context, _ string) ([]domain.RawUnit, domain.FormatTag, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.units, f.tag, nil
}

// fakeLLM counts calls and replays canned output.
type fakeLLM struct {
	reply       string
	fragments   []string
	generateErr error
	streamErr   error
	midErr      error

	generateCalls int
	streamCalls   int
	lastPrompt    string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.generateCalls++
	f.lastPrompt = prompt
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.reply, nil
}

func (f *fakeLLM) Stream(_ context.Context, prompt string, _ driven.GenerateOptions) (<-chan string, <-chan error, error) {
	f.streamCalls++
	f.lastPrompt = prompt
	if f.streamErr != nil {
		return nil, nil, f.streamErr
	}

	fragments := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(fragments)
		defer close(errs)
		for _, frag := range f.fragments {
			fragments <- frag
		}
		if f.midErr != nil {
			errs <- f.midErr
		}
	}()
	return fragments, errs, nil
}

func (f *fakeLLM) ModelName() string { return "fake-llm" }

// fakeReranker replays canned scores per passage position.
type fakeReranker struct {
	scores []float64
	err    error
	calls  int
}

func (f *fakeReranker) Rerank(_ context.Context, _ string, passages []string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.scores) >= len(passages) {
		return f.scores[:len(passages)], nil
	}
	return f.scores, nil
}

func (f *fakeReranker) ModelName() string { return "fake-reranker" }

// rawProse builds a single prose unit.
func rawProse(text string) []domain.RawUnit {
	return []domain.RawUnit{{Text: text, Source: "doc.pdf", Page: 1}}
}
