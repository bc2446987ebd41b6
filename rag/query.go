package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
)

// Query is one question plus the filters that select the notes it is asked
// against. Model overrides the default chat model for this call only.
type Query struct {
	Question  string
	Promotion string
	Course    string
	Subject   string
	Source    string
	Model     string
}

// Normalize slugifies course, subject and source. Promotion is kept verbatim.
func (q Query) Normalize() Query {
	q.Question = strings.TrimSpace(q.Question)
	q.Promotion = strings.TrimSpace(q.Promotion)
	if q.Course != "" {
		q.Course = slug.Make(q.Course)
	}
	if q.Subject != "" {
		q.Subject = slug.Make(q.Subject)
	}
	if q.Source != "" {
		q.Source = slug.Make(q.Source)
	}
	return q
}

// Filter selects source documents by promotion, and by course when one is
// given. Subject and source do not narrow the selection.
func (q Query) Filter() bson.M {
	if q.Course != "" {
		return bson.M{"promotion": q.Promotion, "course": q.Course}
	}
	return bson.M{"promotion": q.Promotion}
}

// Key identifies the answer to a normalized query under model.
func (q Query) Key(model string) string {
	h := sha256.New()
	for _, part := range []string{model, q.Promotion, q.Course, q.Question} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
