package repository

import "context"

type Repository[T any] interface {
	Upsert(ctx context.Context, collectionName string, key interface{}, entity T) (T, error)
	Patch(ctx context.Context, collectionName string, key interface{}, fields map[string]interface{}) (T, error)
	Delete(ctx context.Context, collectionName string, key interface{}) error
	FindByKey(ctx context.Context, collectionName string, key interface{}) (T, error)
	FindOne(ctx context.Context, collectionName string) (T, error)
}
