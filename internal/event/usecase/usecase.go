package usecase

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tracechain/supplychain-service/internal/event"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type eventUseCase struct {
	db     *sqlx.DB
	repo   event.Repository
	logger logger.ZapLogger
}

func NewEventUseCase(db *sqlx.DB, repo event.Repository, log logger.ZapLogger) event.UseCase {
	return &eventUseCase{
		db:     db,
		repo:   repo,
		logger: log,
	}
}

func (uc *eventUseCase) History(ctx context.Context, productID int64) ([]model.Event, error) {
	return uc.repo.ListByProduct(ctx, uc.db, productID)
}
