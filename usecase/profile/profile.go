package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile upserts the caller's display name and email. Role and status
// are not caller-editable; existing values win, defaults apply on first write.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 80 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name must be 1-80 characters")
	}

	user := &domain.User{
		ID:     userID,
		Name:   name,
		Email:  strings.TrimSpace(email),
		Role:   "user",
		Status: "active",
	}
	if existing, err := uc.users.GetByID(ctx, userID); err == nil {
		user.Role = existing.Role
		user.Status = existing.Status
	}

	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
