package documents

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements DocumentsRepo on a MongoDB collection. Documents keep
// the string UUID in "id" so ids stay portable across backends.
type MongoRepo struct {
	col *mongo.Collection
}

type mongoDocument struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewMongoRepo wraps the collection. Call EnsureIndexes once at startup.
func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the unique id index and the per-user listing index.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (m *MongoRepo) Create(ctx context.Context, doc Document) error {
	_, err := m.col.InsertOne(ctx, mongoDocument(doc))
	return err
}

func (m *MongoRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	var d mongoDocument
	err := m.col.FindOne(ctx, bson.M{"id": documentID, "user_id": userID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return Document(d), nil
}

func (m *MongoRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Document{}
	for cur.Next(ctx) {
		var d mongoDocument
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, Document(d))
	}
	return out, cur.Err()
}

func (m *MongoRepo) Delete(ctx context.Context, userID, documentID string) error {
	_, err := m.col.DeleteOne(ctx, bson.M{"id": documentID, "user_id": userID})
	return err
}

var _ DocumentsRepo = (*MongoRepo)(nil)
