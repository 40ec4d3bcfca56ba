package questions

import (
	"context"
	"fmt"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBankName is the question_bank value that selects the MongoDB store
const MongoBankName = "mongo"

// ConnectMongo opens a client and checks the server answers
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return client, nil
}

// MongoStore keeps question records in a MongoDB collection
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a store on the given database and collection
func NewMongoStore(client *mongo.Client, dbName, collectionName string) *MongoStore {
	return &MongoStore{collection: client.Database(dbName).Collection(collectionName)}
}

// Upsert inserts or replaces records by ID. It returns how many were written.
func (s *MongoStore) Upsert(ctx context.Context, records []Record) (int, error) {
	written := 0
	for _, r := range records {
		r.Normalize()
		if _, err := r.Question(); err != nil {
			return written, err
		}

		opCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		filter := bson.M{"_id": r.ID}
		update := bson.M{
			"$set": bson.M{
				"kind":      r.Kind,
				"prompt":    r.Prompt,
				"answer":    r.Answer,
				"choices":   r.Choices,
				"category":  r.Category,
				"updatedAt": time.Now(),
			},
		}
		_, err := s.collection.UpdateOne(opCtx, filter, update, options.Update().SetUpsert(true))
		cancel()
		if err != nil {
			return written, fmt.Errorf("failed to upsert question %s: %w", r.ID, err)
		}
		written++
	}
	return written, nil
}

// All returns every stored record, optionally limited to a category
func (s *MongoStore) All(ctx context.Context, category string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return records, nil
}

// ByID fetches one record
func (s *MongoStore) ByID(ctx context.Context, id string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var r Record
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch question %s: %w", id, err)
	}
	return &r, nil
}

// Count returns how many records are stored
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.collection.CountDocuments(ctx, bson.M{})
}

// Delete removes one record
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// LoadBank reads every record into an in-memory Bank so games never wait on the database
func (s *MongoStore) LoadBank(ctx context.Context, rng engine.RandomSource, kinds ...engine.QuestionKind) (*Bank, error) {
	records, err := s.All(ctx, "")
	if err != nil {
		return nil, err
	}
	return NewBank(MongoBankName, records, rng, kinds...)
}
