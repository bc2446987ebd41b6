package repository

import (
	"context"
	"regexp"

	"etudia/model"
	"etudia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client, dbName, collectionName string) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *NotesRepo) collection() string {
	return r.MongoCollection.Name()
}

// FindPage returns notes matching filter sorted ascending on sortKey.
func (r *NotesRepo) FindPage(ctx context.Context, filter bson.M, sortKey string, skip, limit int64) ([]*model.CourseNote, error) {
	timer := utils.TrackDBOperation("find", r.collection())
	defer timer.ObserveDuration()

	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: 1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "note_find_failed")
		return nil, mapError("find notes", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*model.CourseNote, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, mapError("decode notes", err)
	}
	for _, note := range notes {
		note.NormalizeOwners()
	}
	return notes, nil
}

// Count counts notes matching filter.
func (r *NotesRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	timer := utils.TrackDBOperation("count", r.collection())
	defer timer.ObserveDuration()

	if filter == nil {
		filter = bson.M{}
	}
	count, err := r.MongoCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.TrackError("database", "note_count_failed")
		return 0, mapError("count notes", err)
	}
	return count, nil
}

// FindOne returns the first note matching filter or ErrNotFound.
func (r *NotesRepo) FindOne(ctx context.Context, filter bson.M) (*model.CourseNote, error) {
	timer := utils.TrackDBOperation("find_one", r.collection())
	defer timer.ObserveDuration()

	var note model.CourseNote
	if err := r.MongoCollection.FindOne(ctx, filter).Decode(&note); err != nil {
		return nil, mapError("find note", err)
	}
	note.NormalizeOwners()
	return &note, nil
}

func (r *NotesRepo) FindBySlug(ctx context.Context, slug string) (*model.CourseNote, error) {
	return r.FindOne(ctx, bson.M{"slug": slug})
}

// Insert stores a new note and returns the identifier assigned by the store.
func (r *NotesRepo) Insert(ctx context.Context, note *model.CourseNote) (primitive.ObjectID, error) {
	timer := utils.TrackDBOperation("insert", r.collection())
	defer timer.ObserveDuration()

	doc, err := note.ToBSON()
	if err != nil {
		return primitive.NilObjectID, err
	}

	result, err := r.MongoCollection.InsertOne(ctx, doc)
	if err != nil {
		utils.TrackError("database", "note_insert_failed")
		return primitive.NilObjectID, mapError("insert note", err)
	}

	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

// UpsertByFileHash inserts note unless a note with the same file hash exists,
// in which case the submitter ids are added to the existing note's owners.
// A legacy userid on the existing note is first folded into its owners. The
// insert-or-merge is a single upsert; a duplicate-key race against the unique
// file_hash index is retried once, which then lands on the update branch.
func (r *NotesRepo) UpsertByFileHash(ctx context.Context, note *model.CourseNote) (*model.CourseNote, bool, error) {
	timer := utils.TrackDBOperation("upsert", r.collection())
	defer timer.ObserveDuration()

	doc, err := note.ToBSON()
	if err != nil {
		return nil, false, err
	}
	owners := note.Owners
	delete(doc, "_id")
	delete(doc, "owners")
	delete(doc, "file_hash")

	// An existing note written before the owners array keeps its original
	// owners ahead of the new submitter.
	legacy := bson.M{"file_hash": note.FileHash, "userid": bson.M{"$type": "string"}}
	if _, err := r.MongoCollection.UpdateOne(ctx, legacy, legacyOwnersPipeline()); err != nil {
		utils.TrackError("database", "note_owner_migration_failed")
		return nil, false, mapError("migrate note owners", err)
	}

	filter := bson.M{"file_hash": note.FileHash}
	update := bson.M{"$setOnInsert": doc}
	if len(owners) > 0 {
		update["$addToSet"] = bson.M{"owners": bson.M{"$each": owners}}
	}
	opts := options.Update().SetUpsert(true)

	var result *mongo.UpdateResult
	for attempt := 0; attempt < 2; attempt++ {
		result, err = r.MongoCollection.UpdateOne(ctx, filter, update, opts)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		utils.TrackError("database", "note_upsert_failed")
		return nil, false, mapError("upsert note", err)
	}

	stored, err := r.FindOne(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	return stored, result.UpsertedCount > 0, nil
}

// FindOneAndUpdate applies update and returns the document after the change.
func (r *NotesRepo) FindOneAndUpdate(ctx context.Context, filter bson.M, update bson.M) (*model.CourseNote, error) {
	timer := utils.TrackDBOperation("update", r.collection())
	defer timer.ObserveDuration()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.CourseNote
	if err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&note); err != nil {
		return nil, mapError("update note", err)
	}
	note.NormalizeOwners()
	return &note, nil
}

// UpdateBySlug overwrites every non-empty field of note. The identifier is
// never part of the patch.
func (r *NotesRepo) UpdateBySlug(ctx context.Context, slug string, note *model.CourseNote) (*model.CourseNote, error) {
	patch, err := note.ToBSON()
	if err != nil {
		return nil, err
	}
	delete(patch, "_id")

	update := bson.M{"$set": patch}
	if _, ok := patch["owners"]; ok {
		// The submitted owners replace any legacy userid outright.
		update["$unset"] = bson.M{"userid": ""}
	}
	return r.FindOneAndUpdate(ctx, bson.M{"slug": slug}, update)
}

// legacyOwnersPipeline moves the ids of a comma-joined userid to the front of
// the owners array, dropping blanks and repeats, then removes userid.
func legacyOwnersPipeline() mongo.Pipeline {
	trimmed := bson.M{"$map": bson.M{
		"input": bson.M{"$split": bson.A{"$userid", ","}},
		"as":    "id",
		"in":    bson.M{"$trim": bson.M{"input": "$$id"}},
	}}
	legacy := bson.M{"$filter": bson.M{
		"input": trimmed,
		"as":    "id",
		"cond":  bson.M{"$ne": bson.A{"$$id", ""}},
	}}
	merged := bson.M{"$reduce": bson.M{
		"input":        bson.M{"$concatArrays": bson.A{legacy, bson.M{"$ifNull": bson.A{"$owners", bson.A{}}}}},
		"initialValue": bson.A{},
		"in": bson.M{"$cond": bson.A{
			bson.M{"$in": bson.A{"$$this", "$$value"}},
			"$$value",
			bson.M{"$concatArrays": bson.A{"$$value", bson.A{"$$this"}}},
		}},
	}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"owners": merged}}},
		{{Key: "$unset", Value: "userid"}},
	}
}

// FindOneAndDelete removes the first match and returns it.
func (r *NotesRepo) FindOneAndDelete(ctx context.Context, filter bson.M) (*model.CourseNote, error) {
	timer := utils.TrackDBOperation("delete", r.collection())
	defer timer.ObserveDuration()

	var note model.CourseNote
	if err := r.MongoCollection.FindOneAndDelete(ctx, filter).Decode(&note); err != nil {
		return nil, mapError("delete note", err)
	}
	note.NormalizeOwners()
	return &note, nil
}

func (r *NotesRepo) DeleteBySlug(ctx context.Context, slug string) (*model.CourseNote, error) {
	return r.FindOneAndDelete(ctx, bson.M{"slug": slug})
}

// FindByOwner lists the notes owned by ownerID, sorted by title. Documents
// written before the owners array existed are matched on whole tokens of
// their comma-joined userid field.
func (r *NotesRepo) FindByOwner(ctx context.Context, ownerID string) ([]*model.CourseNote, error) {
	return r.FindPage(ctx, OwnerFilter(ownerID), "title", 0, 0)
}

// OwnerFilter matches ownerID exactly, never as a substring of another id.
func OwnerFilter(ownerID string) bson.M {
	legacy := `(^|,)\s*` + regexp.QuoteMeta(ownerID) + `\s*(,|$)`
	return bson.M{
		"$or": bson.A{
			bson.M{"owners": ownerID},
			bson.M{"userid": bson.M{"$regex": legacy}},
		},
	}
}
