package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/domain"
)

// SQLiteQuotationDataRepo implements QuotationDataRepo using a SQLite
// database. The extracted_data and cost_breakdown columns hold JSON.
type SQLiteQuotationDataRepo struct {
	db db.DBTX
}

// NewSQLiteQuotationDataRepo creates a new SQLiteQuotationDataRepo.
func NewSQLiteQuotationDataRepo(dbtx db.DBTX) *SQLiteQuotationDataRepo {
	return &SQLiteQuotationDataRepo{db: dbtx}
}

func (r *SQLiteQuotationDataRepo) Upsert(ctx context.Context, d *domain.QuotationData) error {
	extracted, err := marshalJSONColumn(jsonOrNil(d.ExtractedData))
	if err != nil {
		return err
	}
	breakdown, err := marshalJSONColumn(jsonOrNil(d.CostBreakdown))
	if err != nil {
		return err
	}

	query := `INSERT INTO quotation_data
			(quotation_id, extracted_data, confidence_score, cost_breakdown, total_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(quotation_id) DO UPDATE SET
			extracted_data = excluded.extracted_data,
			confidence_score = excluded.confidence_score,
			cost_breakdown = excluded.cost_breakdown,
			total_cost = excluded.total_cost,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		d.QuotationID,
		extracted,
		d.ConfidenceScore,
		breakdown,
		d.TotalCost,
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting quotation data: %w", err)
	}
	return nil
}

func (r *SQLiteQuotationDataRepo) GetByQuotationID(ctx context.Context, quotationID string) (*domain.QuotationData, error) {
	query := `SELECT quotation_id, extracted_data, confidence_score, cost_breakdown, total_cost, created_at, updated_at
		FROM quotation_data WHERE quotation_id = ?`
	row := r.db.QueryRowContext(ctx, query, quotationID)

	var d domain.QuotationData
	var extracted, breakdown sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&d.QuotationID, &extracted, &d.ConfidenceScore, &breakdown, &d.TotalCost, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quotation data: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning quotation data: %w", err)
	}

	if extracted.Valid && extracted.String != "" {
		d.ExtractedData = &domain.ExtractedData{}
		if err := unmarshalJSONColumn(extracted, d.ExtractedData); err != nil {
			return nil, err
		}
	}
	if breakdown.Valid && breakdown.String != "" {
		d.CostBreakdown = &domain.CostBreakdown{}
		if err := unmarshalJSONColumn(breakdown, d.CostBreakdown); err != nil {
			return nil, err
		}
	}

	d.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &d, nil
}

// jsonOrNil converts a typed nil pointer into an untyped nil so SQL
// NULL round-trips correctly.
func jsonOrNil[T any](v *T) any {
	if v == nil {
		return nil
	}
	return v
}
