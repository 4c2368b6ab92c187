package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"cafe/internal/domain"
	"cafe/internal/dto"
	apperrors "cafe/internal/errors"
	"cafe/internal/session"
)

type ManagerGate interface {
	RequireManager(ctx context.Context, sess *session.Session) bool
}

type ProfileService struct {
	repo   UserRepository
	gate   ManagerGate
	logger *zap.Logger
}

func NewProfileService(repo UserRepository, gate ManagerGate, logger *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, gate: gate, logger: logger}
}

// UpdateProfile rewrites a user's phone, password, favorites and role.
// Non-managers always update their own record and keep their stored role.
func (s *ProfileService) UpdateProfile(ctx context.Context, sess *session.Session, req dto.UpdateProfileRequest) (*domain.User, error) {
	if !sess.IsAuthenticated() {
		return nil, apperrors.NewAuthError("not logged in")
	}

	phone := strings.TrimSpace(req.Phone)
	if d, ok := checkPhone(phone); !ok {
		return nil, apperrors.NewValidationError("invalid profile", d)
	}

	isManager := s.gate.RequireManager(ctx, sess)

	target := strings.TrimSpace(req.TargetLogin)
	if !isManager {
		if target != "" && target != sess.Login() {
			s.logger.Warn("profile target forced to self",
				zap.String("traceId", sess.ID()), zap.String("login", sess.Login()), zap.String("requested", target))
		}
		target = sess.Login()
	}
	if target == "" {
		target = sess.Login()
	}

	existing, err := s.repo.FindByLogin(ctx, target)
	if err != nil {
		return nil, err
	}

	role := existing.Role
	if isManager && strings.TrimSpace(req.Role) != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role", apperrors.ValidationDetail{
				Field:   "role",
				Message: "role must be Customer or Manager",
			})
		}
		role = parsed
	}

	hash := existing.PasswordHash
	if req.Password != "" {
		hash, err = hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
	}

	updated := domain.User{
		Login:        existing.Login,
		PasswordHash: hash,
		Phone:        phone,
		FavItems:     strings.TrimSpace(req.FavItems),
		Role:         role,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("profile update failed", zap.String("traceId", sess.ID()), zap.String("target", target), zap.Error(err))
		return nil, err
	}

	s.logger.Info("profile updated",
		zap.String("traceId", sess.ID()), zap.String("login", sess.Login()),
		zap.String("target", target), zap.String("role", string(role)))
	return &updated, nil
}
