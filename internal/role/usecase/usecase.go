package usecase

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/internal/auth"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/role"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type roleUseCase struct {
	db     *sqlx.DB
	repo   role.Repository
	logger logger.ZapLogger
}

func NewRoleUseCase(db *sqlx.DB, repo role.Repository, log logger.ZapLogger) role.UseCase {
	return &roleUseCase{
		db:     db,
		repo:   repo,
		logger: log,
	}
}

func (uc *roleUseCase) Grant(ctx context.Context, r model.Role, principal string) error {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := uc.RequireAny(ctx, caller, model.RoleAdmin); err != nil {
		return err
	}
	if !r.Valid() {
		return fmt.Errorf("unknown role %q", r)
	}
	if principal == "" {
		return fmt.Errorf("principal must not be empty")
	}

	if err := uc.repo.Grant(ctx, uc.db, principal, r); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}

	uc.logger.Info("role granted",
		zap.String("role", string(r)),
		zap.String("principal", principal),
		zap.String("granted_by", caller),
	)
	return nil
}

func (uc *roleUseCase) Has(ctx context.Context, principal string, r model.Role) (bool, error) {
	return uc.repo.Has(ctx, uc.db, principal, r)
}

func (uc *roleUseCase) RequireAny(ctx context.Context, principal string, roles ...model.Role) error {
	for _, r := range roles {
		ok, err := uc.repo.Has(ctx, uc.db, principal, r)
		if err != nil {
			return fmt.Errorf("check role: %w", err)
		}
		if ok {
			return nil
		}
	}
	return auth.ErrUnauthorized
}

func (uc *roleUseCase) Bootstrap(ctx context.Context, principal string) error {
	if principal == "" {
		return fmt.Errorf("bootstrap principal must not be empty")
	}
	if err := uc.repo.Grant(ctx, uc.db, principal, model.RoleAdmin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}
