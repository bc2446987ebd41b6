package rag

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestQueryNormalizeAndFilter(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantCourse string
		wantFilter bson.M
	}{
		{
			name:       "Promotion only",
			query:      Query{Question: " q ", Promotion: "2024"},
			wantFilter: bson.M{"promotion": "2024"},
		},
		{
			name:       "Course is slugged",
			query:      Query{Question: "q", Promotion: "2024", Course: "Machine Learning"},
			wantCourse: "machine-learning",
			wantFilter: bson.M{"promotion": "2024", "course": "machine-learning"},
		},
		{
			name:       "Subject and source do not filter",
			query:      Query{Question: "q", Promotion: "2024", Subject: "Graphs", Source: "Lecture 3"},
			wantFilter: bson.M{"promotion": "2024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query.Normalize()
			if q.Course != tt.wantCourse {
				t.Errorf("Expected course %q, got %q", tt.wantCourse, q.Course)
			}
			if !reflect.DeepEqual(q.Filter(), tt.wantFilter) {
				t.Errorf("Expected filter %v, got %v", tt.wantFilter, q.Filter())
			}
		})
	}

	q := Query{Subject: "Graph Theory", Source: "Lecture 3"}.Normalize()
	if q.Subject != "graph-theory" || q.Source != "lecture-3" {
		t.Errorf("Expected slugged subject and source, got %q %q", q.Subject, q.Source)
	}
}

func TestQueryKey(t *testing.T) {
	a := Query{Question: "q", Promotion: "2024", Course: "c"}
	if a.Key("m1") != a.Key("m1") {
		t.Error("Expected keys to be stable")
	}
	if a.Key("m1") == a.Key("m2") {
		t.Error("Expected model to change the key")
	}
	b := Query{Question: "q", Promotion: "2024c"}
	c := Query{Question: "q", Promotion: "2024", Course: "c"}
	if b.Key("m") == c.Key("m") {
		t.Error("Expected field boundaries to be part of the key")
	}
}

func TestSentenceChunker(t *testing.T) {
	chunker := NewSentenceChunker(2, 1)
	chunks := chunker.Chunk(Document{ID: "d", Text: "One. Two! Three? Four"})

	want := []string{"One. Two!", "Two! Three?", "Three? Four"}
	if len(chunks) != len(want) {
		t.Fatalf("Expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("Chunk %d: expected %q, got %q", i, want[i], c.Text)
		}
		if c.DocumentID != "d" || c.Index != i {
			t.Errorf("Chunk %d: unexpected identity %+v", i, c)
		}
	}

	if got := chunker.Chunk(Document{ID: "e", Text: "   "}); got != nil {
		t.Errorf("Expected no chunks for blank text, got %+v", got)
	}
}

func TestSentenceChunkerInvalidOverlap(t *testing.T) {
	chunker := NewSentenceChunker(2, 5)
	chunks := chunker.Chunk(Document{ID: "d", Text: "A. B. C. D."})
	if len(chunks) != 2 {
		t.Fatalf("Expected overlap to be dropped and 2 chunks, got %d", len(chunks))
	}
}

func TestIndexSearch(t *testing.T) {
	idx := &Index{}
	idx.Add(Chunk{ChunkID: "x"}, []float32{1, 0})
	idx.Add(Chunk{ChunkID: "y"}, []float32{0, 3})
	idx.Add(Chunk{ChunkID: "xy"}, []float32{1, 1})
	idx.Add(Chunk{ChunkID: "bad"}, []float32{1, 0, 0})
	if idx.Len() != 4 {
		t.Fatalf("Expected 4 indexed chunks, got %d", idx.Len())
	}

	results := idx.Search([]float32{2, 0.1}, 2)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ChunkID != "x" || results[1].Chunk.ChunkID != "xy" {
		t.Errorf("Unexpected ranking: %s, %s", results[0].Chunk.ChunkID, results[1].Chunk.ChunkID)
	}
	if results[0].Score < 0.99 {
		t.Errorf("Expected near-1 similarity, got %f", results[0].Score)
	}

	if got := idx.Search([]float32{1, 0}, 0); got != nil {
		t.Errorf("Expected no results for topK 0, got %v", got)
	}
	if got := (&Index{}).Search([]float32{1, 0}, 2); got != nil {
		t.Errorf("Expected no results from an empty index, got %v", got)
	}
}

type staticLoader struct {
	docs       []Document
	lastFilter bson.M
}

func (l *staticLoader) Load(_ context.Context, filter bson.M) ([]Document, error) {
	l.lastFilter = filter
	return l.docs, nil
}

// keywordEmbedder places text on one axis per keyword it contains.
type keywordEmbedder struct {
	keywords []string
	err      error
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, len(e.keywords))
		for j, k := range e.keywords {
			if strings.Contains(strings.ToLower(text), k) {
				v[j] = 1
			}
		}
		out[i] = v
	}
	return out, nil
}

type recordingLLM struct {
	prompt string
	cfg    ModelConfig
	calls  int
}

func (l *recordingLLM) Complete(_ context.Context, cfg ModelConfig, prompt string) (string, error) {
	l.calls++
	l.prompt = prompt
	l.cfg = cfg
	return "answer", nil
}

func newTestGateway(loader Loader, embedder Embedder, llm LLM) *Gateway {
	return &Gateway{
		Loader:   loader,
		Chunker:  NewSentenceChunker(1, 0),
		Embedder: embedder,
		LLM:      llm,
		Defaults: ModelConfig{Model: "default-model", Temperature: 0.2},
		TopK:     1,
	}
}

func TestGatewayFind(t *testing.T) {
	loader := &staticLoader{docs: []Document{
		{ID: "1", Text: "Monoids have an identity. Groups have inverses."},
		{ID: "2", Text: "Rings have two operations."},
	}}
	llm := &recordingLLM{}
	g := newTestGateway(loader, &keywordEmbedder{keywords: []string{"monoid", "group", "ring"}}, llm)

	answer, err := g.Find(context.Background(), Query{
		Question:  "What do groups have?",
		Promotion: "2024",
		Course:    "Algebra",
		Model:     "override",
	})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if answer != "answer" {
		t.Errorf("Expected LLM answer, got %q", answer)
	}
	if !reflect.DeepEqual(loader.lastFilter, bson.M{"promotion": "2024", "course": "algebra"}) {
		t.Errorf("Unexpected filter %v", loader.lastFilter)
	}
	if !strings.Contains(llm.prompt, "Groups have inverses.") {
		t.Errorf("Expected the best chunk in the prompt, got %q", llm.prompt)
	}
	if strings.Contains(llm.prompt, "Rings") {
		t.Errorf("Expected only topK chunks in the prompt, got %q", llm.prompt)
	}
	if !strings.HasSuffix(llm.prompt, "Query: What do groups have?\nAnswer: ") {
		t.Errorf("Unexpected prompt tail %q", llm.prompt)
	}
	if llm.cfg.Model != "override" || llm.cfg.Temperature != 0.2 {
		t.Errorf("Unexpected model config %+v", llm.cfg)
	}
}

func TestGatewayEmptyResponse(t *testing.T) {
	llm := &recordingLLM{}
	g := newTestGateway(&staticLoader{}, &keywordEmbedder{}, llm)

	answer, err := g.Find(context.Background(), Query{Question: "q", Promotion: "2024"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if answer != EmptyResponse {
		t.Errorf("Expected %q, got %q", EmptyResponse, answer)
	}
	if llm.calls != 0 {
		t.Error("Expected the LLM not to be called")
	}
}

func TestGatewayErrors(t *testing.T) {
	loader := &staticLoader{docs: []Document{{ID: "1", Text: "Some text."}}}

	g := newTestGateway(loader, &keywordEmbedder{}, &recordingLLM{})
	if _, err := g.Find(context.Background(), Query{Question: "  ", Promotion: "2024"}); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("Expected ErrEmptyQuestion, got %v", err)
	}

	upstream := errors.New("embedding backend down")
	g = newTestGateway(loader, &keywordEmbedder{err: upstream}, &recordingLLM{})
	if _, err := g.Find(context.Background(), Query{Question: "q", Promotion: "2024"}); !errors.Is(err, upstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Why?", []SearchResult{
		{Chunk: Chunk{Text: "first"}},
		{Chunk: Chunk{Text: "second"}},
	})
	want := "Context information is below.\n" +
		"---------------------\n" +
		"first\n\nsecond\n" +
		"---------------------\n" +
		"Given the context information and not prior knowledge, answer the query.\n" +
		"Query: Why?\n" +
		"Answer: "
	if prompt != want {
		t.Errorf("Unexpected prompt:\n%q\nwant:\n%q", prompt, want)
	}
}
