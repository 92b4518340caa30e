package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// queueDocument is the persisted shape of one queued item. ObjectIDs
// embed a timestamp plus a monotonic counter, so sorting on _id yields
// insertion order without a separate sequence field.
type queueDocument struct {
	ID      bson.ObjectID `bson:"_id,omitempty"`
	Family  string        `bson:"family"`
	Key     string        `bson:"key"`
	Payload []byte        `bson:"payload"`
}

// MongoStore implements Store on a MongoDB collection. Pop uses
// FindOneAndDelete sorted by _id, which the server executes atomically.
type MongoStore[T any] struct {
	coll   *mongo.Collection
	prefix string
}

// NewMongoStore creates a store over an established collection.
func NewMongoStore[T any](coll *mongo.Collection, opts ...StoreOption) (*MongoStore[T], error) {
	if coll == nil {
		return nil, errors.New("mongo collection is nil")
	}

	o := newStoreOptions(opts...)
	return &MongoStore[T]{
		coll:   coll,
		prefix: o.prefix,
	}, nil
}

// Push appends item to the named sub-queue.
func (ms *MongoStore[T]) Push(ctx context.Context, key string, item T) error {
	if key == "" {
		return ErrEmptyQueueKey
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	doc := queueDocument{Family: ms.prefix, Key: key, Payload: payload}
	if _, err := ms.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to push to queue %q: %w", key, err)
	}
	return nil
}

// Pop removes and returns the front item of the named sub-queue.
func (ms *MongoStore[T]) Pop(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	filter := bson.D{{Key: "family", Value: ms.prefix}, {Key: "key", Value: key}}
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc queueDocument
	err := ms.coll.FindOneAndDelete(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to pop from queue %q: %w", key, err)
	}

	var item T
	if err := json.Unmarshal(doc.Payload, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	return item, true, nil
}

// Peek returns the front item without removing it.
func (ms *MongoStore[T]) Peek(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	filter := bson.D{{Key: "family", Value: ms.prefix}, {Key: "key", Value: key}}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc queueDocument
	err := ms.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to peek queue %q: %w", key, err)
	}

	var item T
	if err := json.Unmarshal(doc.Payload, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	return item, true, nil
}

// List returns every pending item of the named sub-queue in FIFO order.
func (ms *MongoStore[T]) List(ctx context.Context, key string) ([]T, error) {
	if key == "" {
		return nil, ErrEmptyQueueKey
	}

	filter := bson.D{{Key: "family", Value: ms.prefix}, {Key: "key", Value: key}}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := ms.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue %q: %w", key, err)
	}
	defer cursor.Close(ctx)

	var items []T
	for cursor.Next(ctx) {
		var doc queueDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode queue item: %w", err)
		}
		var item T
		if err := json.Unmarshal(doc.Payload, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queue %q: %w", key, err)
	}
	return items, nil
}

// Keys returns every key with at least one pending item.
func (ms *MongoStore[T]) Keys(ctx context.Context) ([]string, error) {
	filter := bson.D{{Key: "family", Value: ms.prefix}}

	var keys []string
	if err := ms.coll.Distinct(ctx, "key", filter).Decode(&keys); err != nil {
		return nil, fmt.Errorf("failed to list queue keys: %w", err)
	}
	return keys, nil
}
