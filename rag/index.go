package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// SearchResult is a chunk and its cosine similarity to the query.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Index is an in-memory vector index over chunks. Vectors are normalized on
// insert so search is a dot product.
type Index struct {
	chunks  []Chunk
	vectors [][]float32
}

// BuildIndex embeds every chunk with embedder.
func BuildIndex(ctx context.Context, embedder Embedder, chunks []Chunk) (*Index, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("got %d embeddings for %d chunks", len(vectors), len(chunks))
	}

	idx := &Index{}
	for i, c := range chunks {
		idx.Add(c, vectors[i])
	}
	return idx, nil
}

func (idx *Index) Add(chunk Chunk, vector []float32) {
	idx.chunks = append(idx.chunks, chunk)
	idx.vectors = append(idx.vectors, normalize(vector))
}

func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search returns the topK chunks closest to query, best first.
func (idx *Index) Search(query []float32, topK int) []SearchResult {
	if topK <= 0 || len(idx.chunks) == 0 {
		return nil
	}
	q := normalize(query)

	results := make([]SearchResult, 0, len(idx.chunks))
	for i, v := range idx.vectors {
		if len(v) != len(q) {
			continue
		}
		results = append(results, SearchResult{Chunk: idx.chunks[i], Score: dot(q, v)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := float32(math.Sqrt(sum))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
