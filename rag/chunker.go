package rag

import (
	"regexp"
	"strconv"
	"strings"
)

// Chunk is a run of consecutive sentences from one document.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// SentenceChunker splits text into sentence-based chunks with overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 || overlapSentences >= sentencesPerChunk {
		overlapSentences = 0
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`),
	}
}

func (c *SentenceChunker) Chunk(doc Document) []Chunk {
	var sentences []string
	for _, s := range c.splitter.FindAllString(doc.Text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	for i, idx := 0, 0; i < len(sentences); idx++ {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, Chunk{
			DocumentID: doc.ID,
			ChunkID:    doc.ID + ":" + strconv.Itoa(idx),
			Text:       strings.Join(sentences[i:end], " "),
			Index:      idx,
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return chunks
}

// ChunkAll chunks every document in order.
func (c *SentenceChunker) ChunkAll(docs []Document) []Chunk {
	var chunks []Chunk
	for _, d := range docs {
		chunks = append(chunks, c.Chunk(d)...)
	}
	return chunks
}
