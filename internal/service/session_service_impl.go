package service

import (
	"context"
	"time"

	"github.com/avelarbuild/quotient/internal/db"
	"github.com/avelarbuild/quotient/internal/domain"
	"github.com/avelarbuild/quotient/internal/repository"
)

type sessionService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSessionService(sessions repository.SessionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SessionService {
	return &sessionService{
		sessions: sessions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sessionService) GetOrCreate(ctx context.Context, id string) (*domain.Session, error) {
	if id != "" {
		sess, err := s.sessions.GetByID(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errorsIsNotFound(err) {
			return nil, err
		}
		// Unknown ids get a fresh session rather than resurrecting the
		// client's id; the client learns the new id from the reply.
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        NewSessionID(),
		History:   []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *sessionService) RecordExchange(ctx context.Context, id, userMsg, assistantMsg, quotationID string) (err error) {
	start := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "session.record_exchange",
			Duration:  time.Since(start),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"session_id": id},
			StartedAt: start,
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		sess, err := txSessions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if userMsg != "" {
			if err := sess.Append(domain.RoleUser, userMsg, now); err != nil {
				return err
			}
		}
		if assistantMsg != "" {
			if err := sess.Append(domain.RoleAssistant, assistantMsg, now); err != nil {
				return err
			}
		}
		if quotationID != "" {
			sess.LinkQuotation(quotationID, now)
		}
		return txSessions.Update(ctx, sess)
	})
}
