package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
// The history column holds the session's messages as a JSON array.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(dbtx db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: dbtx}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	history, err := json.Marshal(historyOrEmpty(s.History))
	if err != nil {
		return fmt.Errorf("marshaling session history: %w", err)
	}
	query := `INSERT INTO sessions (id, history, quotation_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		string(history),
		nullableString(s.QuotationID),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT id, history, quotation_id, created_at, updated_at FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.Session
	var history string
	var quotationID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&s.ID, &history, &quotationID, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if err := json.Unmarshal([]byte(history), &s.History); err != nil {
		return nil, fmt.Errorf("unmarshaling session history: %w", err)
	}
	if quotationID.Valid {
		s.QuotationID = quotationID.String
	}
	s.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	history, err := json.Marshal(historyOrEmpty(s.History))
	if err != nil {
		return fmt.Errorf("marshaling session history: %w", err)
	}
	query := `UPDATE sessions SET history = ?, quotation_id = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(history),
		nullableString(s.QuotationID),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func historyOrEmpty(history []domain.Message) []domain.Message {
	if history == nil {
		return []domain.Message{}
	}
	return history
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
