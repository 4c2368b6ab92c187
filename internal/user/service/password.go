package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "cafe/internal/errors"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError("password is too long", apperrors.ValidationDetail{
			Field:   "password",
			Message: "password must be at most 72 bytes",
		})
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
