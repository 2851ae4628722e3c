package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartDocument struct {
	CartID    string              `bson:"_id"`
	Snapshot  domain.CartSnapshot `bson:"snapshot"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

// MongoStorage persists the cart snapshot as a single document keyed by the
// fixed cart identifier.
type MongoStorage struct {
	collection *mongo.Collection
	cartID     string
}

func NewMongoStorage(db *mongo.Database, cartID string) *MongoStorage {
	return &MongoStorage{
		collection: db.Collection("carts"),
		cartID:     cartID,
	}
}

// ConnectMongoDB establishes a connection and pings the server.
func ConnectMongoDB(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(dbName), nil
}

func (m *MongoStorage) Load(ctx context.Context) (*domain.CartSnapshot, error) {
	var doc cartDocument

	filter := bson.M{"_id": m.cartID}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	return &doc.Snapshot, nil
}

func (m *MongoStorage) Save(ctx context.Context, snapshot *domain.CartSnapshot) error {
	doc := cartDocument{
		CartID:    m.cartID,
		Snapshot:  *snapshot,
		UpdatedAt: time.Now(),
	}

	filter := bson.M{"_id": m.cartID}
	opts := options.Replace().SetUpsert(true)

	if _, err := m.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}

	return nil
}
