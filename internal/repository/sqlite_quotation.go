package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/domain"
)

// SQLiteQuotationRepo implements QuotationRepo using a SQLite database.
type SQLiteQuotationRepo struct {
	db db.DBTX
}

// NewSQLiteQuotationRepo creates a new SQLiteQuotationRepo.
func NewSQLiteQuotationRepo(dbtx db.DBTX) *SQLiteQuotationRepo {
	return &SQLiteQuotationRepo{db: dbtx}
}

const quotationColumns = `id, project_description, location, zip_code, project_type,
	timeline, status, progress, failure_reason, created_at, updated_at`

func (r *SQLiteQuotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	query := `INSERT INTO quotations (` + quotationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		q.ID,
		q.ProjectDescription,
		q.Location,
		q.ZipCode,
		string(q.ProjectType),
		q.Timeline,
		string(q.Status),
		q.Progress,
		q.FailureReason,
		q.CreatedAt.Format(time.RFC3339),
		q.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting quotation: %w", err)
	}
	return nil
}

func (r *SQLiteQuotationRepo) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanQuotation(row)
}

func (r *SQLiteQuotationRepo) List(ctx context.Context, limit, offset int) ([]*domain.Quotation, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + quotationColumns + ` FROM quotations
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}
	defer rows.Close()

	var quotations []*domain.Quotation
	for rows.Next() {
		q, err := r.scanQuotationRow(rows)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotations: %w", err)
	}
	return quotations, nil
}

func (r *SQLiteQuotationRepo) Update(ctx context.Context, q *domain.Quotation) error {
	query := `UPDATE quotations
		SET project_description = ?, location = ?, zip_code = ?, project_type = ?,
		    timeline = ?, status = ?, progress = ?, failure_reason = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		q.ProjectDescription,
		q.Location,
		q.ZipCode,
		string(q.ProjectType),
		q.Timeline,
		string(q.Status),
		q.Progress,
		q.FailureReason,
		q.UpdatedAt.Format(time.RFC3339),
		q.ID,
	)
	if err != nil {
		return fmt.Errorf("updating quotation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("quotation %s: %w", q.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteQuotationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting quotation: %w", err)
	}
	return nil
}

func (r *SQLiteQuotationRepo) scanQuotation(row *sql.Row) (*domain.Quotation, error) {
	var q domain.Quotation
	var projectType, status, createdAt, updatedAt string

	err := row.Scan(
		&q.ID, &q.ProjectDescription, &q.Location, &q.ZipCode, &projectType,
		&q.Timeline, &status, &q.Progress, &q.FailureReason, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quotation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning quotation: %w", err)
	}
	return r.populateQuotation(&q, projectType, status, createdAt, updatedAt)
}

func (r *SQLiteQuotationRepo) scanQuotationRow(rows *sql.Rows) (*domain.Quotation, error) {
	var q domain.Quotation
	var projectType, status, createdAt, updatedAt string

	err := rows.Scan(
		&q.ID, &q.ProjectDescription, &q.Location, &q.ZipCode, &projectType,
		&q.Timeline, &status, &q.Progress, &q.FailureReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning quotation row: %w", err)
	}
	return r.populateQuotation(&q, projectType, status, createdAt, updatedAt)
}

func (r *SQLiteQuotationRepo) populateQuotation(q *domain.Quotation, projectType, status, createdAt, updatedAt string) (*domain.Quotation, error) {
	q.ProjectType = domain.ProjectType(projectType)
	q.Status = domain.QuotationStatus(status)

	var err error
	q.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	q.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return q, nil
}
