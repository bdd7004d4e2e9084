package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/repository"
	"github.com/avelarbuild/quotient/internal/testutil"
)

func newSessionService(t *testing.T) SessionService {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewSessionService(
		repository.NewSQLiteSessionRepo(database),
		testutil.NewTestUoW(database),
	)
}

func TestSessionService_GetOrCreateNew(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.ID, "session-"))
	assert.Empty(t, sess.History)

	// It is persisted, not ephemeral.
	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestSessionService_GetOrCreateExisting(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)

	same, err := svc.GetOrCreate(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, same.ID)
}

func TestSessionService_UnknownIDGetsFreshSession(t *testing.T) {
	svc := newSessionService(t)

	sess, err := svc.GetOrCreate(context.Background(), "session-000000000000")
	require.NoError(t, err)
	assert.NotEqual(t, "session-000000000000", sess.ID)
}

func TestSessionService_RecordExchange(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	sess, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.RecordExchange(ctx, sess.ID,
		"I need a quote for my office renovation project in Cairo please",
		"I've started preparing your quotation.",
		""))

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.Equal(t, domain.RoleUser, got.History[0].Role)
	assert.Equal(t, domain.RoleAssistant, got.History[1].Role)
}

func TestSessionService_RecordExchangeLinksQuotation(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSessionService(
		repository.NewSQLiteSessionRepo(database),
		testutil.NewTestUoW(database),
	)
	quotations := NewQuotationService(
		repository.NewSQLiteQuotationRepo(database),
		repository.NewSQLiteQuotationDataRepo(database),
		testutil.NewTestUoW(database),
	)
	ctx := context.Background()

	q, err := quotations.Create(ctx, validCreateRequest())
	require.NoError(t, err)
	sess, err := sessions.GetOrCreate(ctx, "")
	require.NoError(t, err)

	require.NoError(t, sessions.RecordExchange(ctx, sess.ID, "quote it", "done", q.ID))

	got, err := sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.QuotationID)
}

func TestSessionService_RecordExchangeUnknownSession(t *testing.T) {
	svc := newSessionService(t)

	err := svc.RecordExchange(context.Background(), "session-000000000000", "hi", "hello", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
