package repository

import (
	"context"

	"etudia/model"
	"etudia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetUserRepo(client *mongo.Client, dbName, collectionName string) *UserRepo {
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func (r *UserRepo) collection() string {
	return r.MongoCollection.Name()
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	timer := utils.TrackDBOperation("insert", r.collection())
	defer timer.ObserveDuration()

	doc, err := user.ToBSON()
	if err != nil {
		return primitive.NilObjectID, err
	}

	result, err := r.MongoCollection.InsertOne(ctx, doc)
	if err != nil {
		utils.TrackError("database", "user_creation_failed")
		return primitive.NilObjectID, mapError("insert user", err)
	}

	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (r *UserRepo) FindUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	timer := utils.TrackDBOperation("find_one", r.collection())
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			utils.TrackError("database", "user_lookup_error")
		}
		return nil, mapError("find user", err)
	}
	return &user, nil
}

// UpdateUserByPhone sets every non-empty field of user. The identifier and the
// OTP secret are never overwritten from a request body.
func (r *UserRepo) UpdateUserByPhone(ctx context.Context, phone string, user *model.User) (*model.User, error) {
	timer := utils.TrackDBOperation("update", r.collection())
	defer timer.ObserveDuration()

	patch, err := user.ToBSON()
	if err != nil {
		return nil, err
	}
	delete(patch, "_id")
	delete(patch, "otp")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.User
	err = r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"phone": phone}, bson.M{"$set": patch}, opts).Decode(&updated)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			utils.TrackError("database", "user_update_failed")
		}
		return nil, mapError("update user", err)
	}
	return &updated, nil
}

func (r *UserRepo) DeleteUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	timer := utils.TrackDBOperation("delete", r.collection())
	defer timer.ObserveDuration()

	var deleted model.User
	err := r.MongoCollection.FindOneAndDelete(ctx, bson.M{"phone": phone}).Decode(&deleted)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			utils.TrackError("database", "user_deletion_failed")
		}
		return nil, mapError("delete user", err)
	}
	return &deleted, nil
}
