package repository

import (
	"context"
	"fmt"
	"time"

	"etudia/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// presentString limits a unique index to documents where the key is a string,
// so notes without a slug or file hash never collide with each other.
func presentString(field string) bson.D {
	return bson.D{{Key: field, Value: bson.D{{Key: "$type", Value: "string"}}}}
}

func noteIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetName("slug_unique").
				SetUnique(true).
				SetPartialFilterExpression(presentString("slug")),
		},
		{
			Keys: bson.D{{Key: "file_hash", Value: 1}},
			Options: options.Index().
				SetName("file_hash_unique").
				SetUnique(true).
				SetPartialFilterExpression(presentString("file_hash")),
		},
		// Listing sort
		{
			Keys: bson.D{{Key: "title", Value: 1}},
			Options: options.Index().
				SetName("title_index"),
		},
		// Ask pipeline document filter
		{
			Keys: bson.D{
				{Key: "promotion", Value: 1},
				{Key: "course", Value: 1},
			},
			Options: options.Index().
				SetName("promotion_course"),
		},
		{
			Keys: bson.D{{Key: "owners", Value: 1}},
			Options: options.Index().
				SetName("owners_index"),
		},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().
				SetName("phone_unique").
				SetUnique(true),
		},
	}
}

// SetupIndexes creates the indexes the service relies on for uniqueness and
// lookups. It is idempotent.
func SetupIndexes(ctx context.Context, db *mongo.Database, notesCollection, usersCollection string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Collection(notesCollection).Indexes().CreateMany(ctx, noteIndexes()); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes()); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	logger.Info().
		Str("database", db.Name()).
		Str("notes", notesCollection).
		Str("users", usersCollection).
		Msg("indexes ready")
	return nil
}
