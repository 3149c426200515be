package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"greeter/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestCallDocumentBSON(t *testing.T) {
	createdAt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	call := &domain.CallRecord{
		ID:        "id-1",
		Operation: domain.OperationGreet,
		Input:     `{"name":"World"}`,
		Output:    "Hello, World!",
		CreatedAt: createdAt,
	}

	raw, err := bson.Marshal(callToDocument(call))
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, "id-1", fields["_id"])
	assert.Equal(t, "greet", fields["operation"])
	assert.Contains(t, fields, "created_at")

	var doc CallDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, call, doc.toDomain())
}

// Интеграционный тест, нужен GREETER_TEST_MONGO_URI
func TestMongoCallRepository(t *testing.T) {
	uri := os.Getenv("GREETER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GREETER_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	dbName := "greeter_test_" + uuid.NewString()[:8]
	defer client.Database(dbName).Drop(context.Background())

	repo := NewMongoCallRepository(client, dbName)
	require.NoError(t, repo.Ping(ctx))

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, op := range []domain.Operation{domain.OperationGreet, domain.OperationAddNumbers} {
		require.NoError(t, repo.Record(ctx, &domain.CallRecord{
			ID:        uuid.NewString(),
			Operation: op,
			Input:     "{}",
			Output:    "x",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	calls, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, domain.OperationAddNumbers, calls[0].Operation)

	err = repo.Record(ctx, &domain.CallRecord{ID: calls[0].ID, CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrDuplicateCall)
}
