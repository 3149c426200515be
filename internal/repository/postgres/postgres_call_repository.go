package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greeter/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresCallRepository - журнал вызовов в PostgreSQL
type PostgresCallRepository struct {
	db *sqlx.DB
}

// NewPostgresCallRepository создает новый репозиторий PostgreSQL
func NewPostgresCallRepository(db *sqlx.DB) *PostgresCallRepository {
	return &PostgresCallRepository{db: db}
}

// CallDBModel - строка таблицы call_journal
type CallDBModel struct {
	ID        string    `db:"id"`
	Operation string    `db:"operation"`
	Input     string    `db:"input"`
	Output    string    `db:"output"`
	CreatedAt time.Time `db:"created_at"`
}

func (m *CallDBModel) ToDomain() *domain.CallRecord {
	return &domain.CallRecord{
		ID:        m.ID,
		Operation: domain.Operation(m.Operation),
		Input:     m.Input,
		Output:    m.Output,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func (m *CallDBModel) FromDomain(call *domain.CallRecord) {
	m.ID = call.ID
	m.Operation = string(call.Operation)
	m.Input = call.Input
	m.Output = call.Output
	m.CreatedAt = call.CreatedAt
}

func (r *PostgresCallRepository) Record(ctx context.Context, call *domain.CallRecord) error {
	// call принадлежит вызывающему, недостающие поля заполняем только в строке
	row := &CallDBModel{}
	row.FromDomain(call)
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO call_journal (id, operation, input, output, created_at)
		VALUES (:id, :operation, :input, :output, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.NewDuplicateCallError(row.ID, err)
		}
		return fmt.Errorf("failed to record call: %w", err)
	}

	return nil
}

func (r *PostgresCallRepository) Recent(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	query := `
		SELECT id, operation, input, output, created_at
		FROM call_journal
		ORDER BY created_at DESC
		LIMIT $1
	`

	var rows []CallDBModel
	if err := r.db.SelectContext(ctx, &rows, query, domain.NormalizeLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	calls := make([]*domain.CallRecord, 0, len(rows))
	for i := range rows {
		calls = append(calls, rows[i].ToDomain())
	}
	return calls, nil
}

func (r *PostgresCallRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
