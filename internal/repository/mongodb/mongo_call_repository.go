package mongodb

import (
	"context"
	"fmt"
	"time"

	"greeter/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CallsCollection = "calls"

// MongoCallRepository - журнал вызовов в MongoDB
type MongoCallRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoCallRepository создает новый репозиторий MongoDB
func NewMongoCallRepository(client *mongo.Client, dbName string) *MongoCallRepository {
	return &MongoCallRepository{
		client: client,
		db:     client.Database(dbName),
	}
}

// CallDocument - документ коллекции calls
type CallDocument struct {
	ID        string    `bson:"_id"`
	Operation string    `bson:"operation"`
	Input     string    `bson:"input"`
	Output    string    `bson:"output"`
	CreatedAt time.Time `bson:"created_at"`
}

func callToDocument(call *domain.CallRecord) *CallDocument {
	return &CallDocument{
		ID:        call.ID,
		Operation: string(call.Operation),
		Input:     call.Input,
		Output:    call.Output,
		CreatedAt: call.CreatedAt,
	}
}

func (d *CallDocument) toDomain() *domain.CallRecord {
	return &domain.CallRecord{
		ID:        d.ID,
		Operation: domain.Operation(d.Operation),
		Input:     d.Input,
		Output:    d.Output,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *MongoCallRepository) Record(ctx context.Context, call *domain.CallRecord) error {
	collection := r.db.Collection(CallsCollection)

	_, err := collection.InsertOne(ctx, callToDocument(call))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewDuplicateCallError(call.ID, err)
		}
		return fmt.Errorf("failed to record call: %w", err)
	}

	return nil
}

// Recent получает последние записи журнала
func (r *MongoCallRepository) Recent(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	collection := r.db.Collection(CallsCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(domain.NormalizeLimit(limit)))

	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find calls: %w", err)
	}
	defer cursor.Close(ctx)

	var calls []*domain.CallRecord
	for cursor.Next(ctx) {
		var doc CallDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode call: %w", err)
		}
		calls = append(calls, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calls: %w", err)
	}

	return calls, nil
}

// Ping проверяет соединение с MongoDB
func (r *MongoCallRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}
