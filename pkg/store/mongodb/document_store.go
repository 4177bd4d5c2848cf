package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dieselhub/dieselhub/pkg/repository"
)

// DocumentStore implements the repository store capability on top of the
// MongoDB adapter. Query descriptors are translated in a fixed clause order:
// conditions (as supplied, into an ordered bson.D), then sort, then the
// cursor range predicate, then limit.
type DocumentStore struct {
	adapter *Adapter
}

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(adapter *Adapter) (*DocumentStore, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	return &DocumentStore{adapter: adapter}, nil
}

// Insert stores a new document and returns the assigned ObjectID as hex.
// Unique-index violations surface as a repository.DuplicateKeyError.
func (s *DocumentStore) Insert(ctx context.Context, collection string, doc repository.Record) (string, error) {
	opCtx, cancel := s.adapter.withOperationTimeout(ctx)
	defer cancel()

	result, err := s.adapter.Collection(collection).InsertOne(opCtx, bson.M(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", &repository.DuplicateKeyError{Collection: collection}
		}
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// Get returns the document with the given id, or (nil, nil) when absent.
// A malformed id cannot match any document and is treated as absent.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	opCtx, cancel := s.adapter.withOperationTimeout(ctx)
	defer cancel()

	var out bson.M
	err = s.adapter.Collection(collection).FindOne(opCtx, bson.D{{Key: "_id", Value: oid}}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeRecord(out), nil
}

// Query returns all documents matching the descriptor.
func (s *DocumentStore) Query(ctx context.Context, collection string, q repository.Query) ([]repository.Record, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if q.Sort.Field != "" {
		dir := 1
		if q.Sort.Order == repository.SortDesc {
			dir = -1
		}
		sort := bson.D{{Key: q.Sort.Field, Value: dir}}
		if q.Sort.Field != "_id" {
			sort = append(sort, bson.E{Key: "_id", Value: dir})
		}
		findOpts.SetSort(sort)
	}
	if q.Limit > 0 {
		findOpts.SetLimit(int64(q.Limit))
	}

	opCtx, cancel := s.adapter.withOperationTimeout(ctx)
	defer cancel()

	cur, err := s.adapter.Collection(collection).Find(opCtx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(opCtx)

	records := make([]repository.Record, 0)
	for cur.Next(opCtx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, normalizeRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Update merges fields into an existing document via $set.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Record) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	opCtx, cancel := s.adapter.withOperationTimeout(ctx)
	defer cancel()

	result, err := s.adapter.Collection(collection).UpdateOne(
		opCtx,
		bson.D{{Key: "_id", Value: oid}},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &repository.DuplicateKeyError{Collection: collection}
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a document; absent ids succeed.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	opCtx, cancel := s.adapter.withOperationTimeout(ctx)
	defer cancel()

	_, err = s.adapter.Collection(collection).DeleteOne(opCtx, bson.D{{Key: "_id", Value: oid}})
	return err
}

// buildFilter translates the descriptor's conditions and cursor into an
// ordered filter document. The supplied condition order is preserved exactly;
// the cursor range predicate always comes last.
func buildFilter(q repository.Query) (bson.D, error) {
	filter := bson.D{}
	for _, cond := range q.Conditions {
		e, err := translateCondition(cond)
		if err != nil {
			return nil, err
		}
		filter = append(filter, e)
	}

	if q.StartAfter != "" {
		key, err := repository.DecodeCursor(q.StartAfter)
		if err != nil {
			return nil, err
		}
		clause, err := cursorClause(key, q.Sort.Order)
		if err != nil {
			return nil, err
		}
		filter = append(filter, clause)
	}
	return filter, nil
}

func translateCondition(cond repository.Condition) (bson.E, error) {
	value := cond.Value
	if cond.Field == "_id" {
		if hex, ok := value.(string); ok {
			if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
				value = oid
			}
		}
	}

	switch cond.Op {
	case repository.OpEqual:
		return bson.E{Key: cond.Field, Value: value}, nil
	case repository.OpNotEqual:
		return bson.E{Key: cond.Field, Value: bson.M{"$ne": value}}, nil
	case repository.OpGreater:
		return bson.E{Key: cond.Field, Value: bson.M{"$gt": value}}, nil
	case repository.OpGreaterOrEqual:
		return bson.E{Key: cond.Field, Value: bson.M{"$gte": value}}, nil
	case repository.OpLess:
		return bson.E{Key: cond.Field, Value: bson.M{"$lt": value}}, nil
	case repository.OpLessOrEqual:
		return bson.E{Key: cond.Field, Value: bson.M{"$lte": value}}, nil
	case repository.OpIn:
		return bson.E{Key: cond.Field, Value: bson.M{"$in": value}}, nil
	case repository.OpContains:
		return bson.E{Key: cond.Field, Value: bson.M{"$elemMatch": bson.M{"$eq": value}}}, nil
	default:
		return bson.E{}, fmt.Errorf("unsupported filter operator %q", cond.Op)
	}
}

// cursorClause builds the range predicate that resumes a scan strictly after
// the cursor position: past the sort value, or equal on the sort value and
// past the tiebreaking _id.
func cursorClause(key repository.CursorKey, order repository.SortOrder) (bson.E, error) {
	oid, err := primitive.ObjectIDFromHex(key.ID)
	if err != nil {
		return bson.E{}, fmt.Errorf("malformed cursor id %q", key.ID)
	}

	op := "$gt"
	if order == repository.SortDesc {
		op = "$lt"
	}

	if key.Field == "_id" {
		return bson.E{Key: "_id", Value: bson.M{op: oid}}, nil
	}
	return bson.E{Key: "$or", Value: bson.A{
		bson.M{key.Field: bson.M{op: key.Value}},
		bson.M{key.Field: key.Value, "_id": bson.M{op: oid}},
	}}, nil
}

// normalizeRecord exposes _id as its hex string, per the store contract.
func normalizeRecord(doc bson.M) repository.Record {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
	return repository.Record(doc)
}
