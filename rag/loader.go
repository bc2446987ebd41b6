package rag

import (
	"context"
	"fmt"
	"strings"

	"etudia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document is the text of one stored note.
type Document struct {
	ID   string
	Text string
}

// Loader fetches the documents an index is built from.
type Loader interface {
	Load(ctx context.Context, filter bson.M) ([]Document, error)
}

// MongoLoader reads a single text field from every document matching filter.
type MongoLoader struct {
	Collection *mongo.Collection
	Field      string
}

func NewMongoLoader(client *mongo.Client, dbName, collectionName string) *MongoLoader {
	return &MongoLoader{
		Collection: client.Database(dbName).Collection(collectionName),
		Field:      "desc_text",
	}
}

func (l *MongoLoader) Load(ctx context.Context, filter bson.M) ([]Document, error) {
	timer := utils.TrackDBOperation("load_documents", l.Collection.Name())
	defer timer.ObserveDuration()

	opts := options.Find().SetProjection(bson.M{l.Field: 1})
	cursor, err := l.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		text, _ := raw[l.Field].(string)
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{ID: fmt.Sprint(raw["_id"]), Text: text})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}
