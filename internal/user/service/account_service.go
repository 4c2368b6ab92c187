package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"cafe/internal/domain"
	"cafe/internal/dto"
	apperrors "cafe/internal/errors"
	"cafe/internal/session"
)

// Column widths of the Users table.
const (
	maxLoginLength = 50
	maxPhoneLength = 16
)

type UserRepository interface {
	Insert(ctx context.Context, user domain.User) error
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

type AccountService struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewAccountService(repo UserRepository, logger *zap.Logger) *AccountService {
	return &AccountService{repo: repo, logger: logger}
}

// CreateUser signs up a new customer. The role is always Customer.
func (s *AccountService) CreateUser(ctx context.Context, req dto.CreateUserRequest) error {
	login := strings.TrimSpace(req.Login)

	var details []apperrors.ValidationDetail
	if login == "" {
		details = append(details, apperrors.ValidationDetail{Field: "login", Message: "login is required"})
	}
	if utf8.RuneCountInString(login) > maxLoginLength {
		details = append(details, apperrors.ValidationDetail{Field: "login", Message: fmt.Sprintf("login must be at most %d characters", maxLoginLength)})
	}
	if req.Password == "" {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password is required"})
	}
	phone := strings.TrimSpace(req.Phone)
	if d, ok := checkPhone(phone); !ok {
		details = append(details, d)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user", details...)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	err = s.repo.Insert(ctx, domain.User{
		Login:        login,
		PasswordHash: hash,
		Phone:        phone,
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		s.logger.Error("create user failed", zap.String("login", login), zap.Error(err))
		return err
	}

	s.logger.Info("user created", zap.String("login", login))
	return nil
}

// Login checks the credentials and authenticates sess on success. Unknown
// logins and wrong passwords produce the same AuthError.
func (s *AccountService) Login(ctx context.Context, sess *session.Session, login, password string) error {
	login = strings.TrimSpace(login)

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			s.logger.Warn("login rejected", zap.String("traceId", sess.ID()), zap.String("login", login))
			return apperrors.NewAuthError("invalid login or password")
		}
		return err
	}

	if !checkPassword(password, user.PasswordHash) {
		s.logger.Warn("login rejected", zap.String("traceId", sess.ID()), zap.String("login", login))
		return apperrors.NewAuthError("invalid login or password")
	}

	sess.Authenticate(user.Login)
	s.logger.Info("user logged in", zap.String("traceId", sess.ID()), zap.String("login", user.Login))
	return nil
}

func (s *AccountService) Logout(sess *session.Session) {
	s.logger.Info("user logged out", zap.String("traceId", sess.ID()), zap.String("login", sess.Login()))
	sess.Logout()
}

func checkPhone(phone string) (apperrors.ValidationDetail, bool) {
	if utf8.RuneCountInString(phone) > maxPhoneLength {
		return apperrors.ValidationDetail{Field: "phone", Message: fmt.Sprintf("phone must be at most %d characters", maxPhoneLength)}, false
	}
	return apperrors.ValidationDetail{}, true
}
