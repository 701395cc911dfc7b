package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	mongo    *mongo.Database
	keyField string
}

// NewMongoRepository builds a repository whose lookups filter on keyField
// (e.g. "_id" for the settings row, "key" for tour completion flags).
func NewMongoRepository[T any](mongo *mongo.Database, keyField string) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo, keyField: keyField}
}

func (r *MongoRepository[T]) Upsert(ctx context.Context, collectionName string, key interface{}, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}

	update := bson.M{
		"$set": entity,
	}

	// Upsert garante que o documento seja criado se não existir
	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return entity, err
}

func (r *MongoRepository[T]) Patch(ctx context.Context, collectionName string, key interface{}, fields map[string]interface{}) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}

	set := bson.M{}
	for field, value := range fields {
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&entity)
	return entity, err
}

func (r *MongoRepository[T]) Delete(ctx context.Context, collectionName string, key interface{}) error {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}
	_, err := collection.DeleteOne(ctx, filter)
	return err
}

func (r *MongoRepository[T]) FindByKey(ctx context.Context, collectionName string, key interface{}) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}
	err := collection.FindOne(ctx, filter).Decode(&entity)
	return entity, err
}

func (r *MongoRepository[T]) FindOne(ctx context.Context, collectionName string) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	err := collection.FindOne(ctx, bson.D{}).Decode(&entity)
	return entity, err
}
