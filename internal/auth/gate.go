package auth

import (
	"context"

	"go.uber.org/zap"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/session"
)

type RoleRepository interface {
	FindRole(ctx context.Context, login string) (domain.Role, error)
}

// Gate decides whether a session may run manager-only operations. The role is
// read from the store on every check.
type Gate struct {
	roles  RoleRepository
	logger *zap.Logger
}

func NewGate(roles RoleRepository, logger *zap.Logger) *Gate {
	return &Gate{roles: roles, logger: logger}
}

// RequireManager fails closed: unauthenticated sessions, unknown users and
// lookup failures are all treated as not authorized.
func (g *Gate) RequireManager(ctx context.Context, sess *session.Session) bool {
	if !sess.IsAuthenticated() {
		g.logger.Warn("unauthorized: no authenticated user")
		return false
	}

	role, err := g.roles.FindRole(ctx, sess.Login())
	if err != nil {
		g.logger.Warn("unauthorized: role lookup failed",
			zap.String("traceId", sess.ID()), zap.String("login", sess.Login()), zap.Error(err))
		return false
	}

	if role != domain.RoleManager {
		g.logger.Warn("unauthorized: not a manager",
			zap.String("traceId", sess.ID()), zap.String("login", sess.Login()), zap.String("role", string(role)))
		return false
	}

	return true
}

// Authorize is RequireManager for callers that propagate errors.
func (g *Gate) Authorize(ctx context.Context, sess *session.Session) error {
	if !g.RequireManager(ctx, sess) {
		return apperrors.NewAuthError("unauthorized: you are not a manager")
	}
	return nil
}
