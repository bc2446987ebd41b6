package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"etudia/logger"
)

// EmptyResponse is the answer given when no notes match the query.
const EmptyResponse = "Empty Response"

var ErrEmptyQuestion = errors.New("question is required")

const promptTemplate = "Context information is below.\n" +
	"---------------------\n" +
	"%s\n" +
	"---------------------\n" +
	"Given the context information and not prior knowledge, answer the query.\n" +
	"Query: %s\n" +
	"Answer: "

// BuildPrompt renders the question-answering prompt for the retrieved chunks.
func BuildPrompt(question string, results []SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Text
	}
	return fmt.Sprintf(promptTemplate, strings.Join(parts, "\n\n"), question)
}

// Gateway answers questions over the notes selected by a query. Each call
// builds a fresh index, so answers always reflect the current notes.
type Gateway struct {
	Loader   Loader
	Chunker  *SentenceChunker
	Embedder Embedder
	LLM      LLM
	Defaults ModelConfig
	TopK     int
}

// ModelFor returns the settings used for q.
func (g *Gateway) ModelFor(q Query) ModelConfig {
	cfg := g.Defaults
	if q.Model != "" {
		cfg.Model = q.Model
	}
	return cfg
}

// Find answers q.Question from the notes matching q's filters.
func (g *Gateway) Find(ctx context.Context, q Query) (string, error) {
	q = q.Normalize()
	if q.Question == "" {
		return "", ErrEmptyQuestion
	}
	start := time.Now()
	log := logger.WithField("promotion", q.Promotion)

	docs, err := g.Loader.Load(ctx, q.Filter())
	if err != nil {
		return "", err
	}
	chunks := g.Chunker.ChunkAll(docs)
	if len(chunks) == 0 {
		log.Debug().
			Str("course", q.Course).
			Msg("no documents for query")
		return EmptyResponse, nil
	}

	index, err := BuildIndex(ctx, g.Embedder, chunks)
	if err != nil {
		return "", err
	}
	qv, err := g.Embedder.Embed(ctx, []string{q.Question})
	if err != nil {
		return "", err
	}
	if len(qv) == 0 {
		return "", errors.New("no embedding for question")
	}

	results := index.Search(qv[0], g.topK())
	answer, err := g.LLM.Complete(ctx, g.ModelFor(q), BuildPrompt(q.Question, results))
	if err != nil {
		return "", err
	}

	log.Info().
		Str("course", q.Course).
		Int("documents", len(docs)).
		Int("chunks", index.Len()).
		Dur("duration", time.Since(start)).
		Msg("answered question")
	return answer, nil
}

func (g *Gateway) topK() int {
	if g.TopK <= 0 {
		return 2
	}
	return g.TopK
}
