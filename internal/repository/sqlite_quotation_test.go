package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/testutil"
)

func TestQuotationRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)
	ctx := context.Background()

	q := testutil.NewTestQuotation(
		testutil.WithLocation("Cairo, Egypt"),
		testutil.WithZipCode("12345"),
		testutil.WithProjectType(domain.TypeRenovation),
		testutil.WithTimeline("8 weeks"),
	)
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, q.ProjectDescription, got.ProjectDescription)
	assert.Equal(t, "Cairo, Egypt", got.Location)
	assert.Equal(t, "12345", got.ZipCode)
	assert.Equal(t, domain.TypeRenovation, got.ProjectType)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, 0, got.Progress)
	assert.WithinDuration(t, q.CreatedAt, got.CreatedAt, time.Second)
}

func TestQuotationRepo_GetByIDNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)

	_, err := repo.GetByID(context.Background(), "quot-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuotationRepo_UpdateLifecycleFields(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)
	ctx := context.Background()

	q := testutil.NewTestQuotation()
	require.NoError(t, repo.Create(ctx, q))

	now := time.Now().UTC()
	require.NoError(t, q.BeginProcessing(now))
	require.NoError(t, q.MarkDataCollection(now))
	require.NoError(t, repo.Update(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDataCollection, got.Status)
	assert.Equal(t, 40, got.Progress)
}

func TestQuotationRepo_UpdateFailureReason(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)
	ctx := context.Background()

	q := testutil.NewTestQuotation()
	require.NoError(t, repo.Create(ctx, q))

	now := time.Now().UTC()
	require.NoError(t, q.BeginProcessing(now))
	require.NoError(t, q.Fail("extraction stage retries exhausted", now))
	require.NoError(t, repo.Update(ctx, q))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "extraction stage retries exhausted", got.FailureReason)
}

func TestQuotationRepo_UpdateMissingRowIsNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)

	q := testutil.NewTestQuotation()
	err := repo.Update(context.Background(), q)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuotationRepo_ListNewestFirst(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		q := testutil.NewTestQuotation()
		q.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		q.UpdatedAt = q.CreatedAt
		require.NoError(t, repo.Create(ctx, q))
		ids = append(ids, q.ID)
	}

	all, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)
}

func TestQuotationRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteQuotationRepo(database)
	ctx := context.Background()

	q := testutil.NewTestQuotation()
	require.NoError(t, repo.Create(ctx, q))
	require.NoError(t, repo.Delete(ctx, q.ID))

	_, err := repo.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
