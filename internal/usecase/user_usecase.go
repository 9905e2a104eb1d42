package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/bankbook/internal/domain"
)

const userCacheTTL = 5 * time.Minute

// UserUseCase handles user registration, authentication, and profile updates.
type UserUseCase struct {
	userRepo UserRepository
	hasher   PasswordHasher
	idGen    IDGenerator
	cache    Cache
}

// NewUserUseCase creates a new UserUseCase. The cache is optional; pass nil to
// read through to the repository on every lookup.
func NewUserUseCase(userRepo UserRepository, hasher PasswordHasher, idGen IDGenerator, cache Cache) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		idGen:    idGen,
		cache:    cache,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Name                 string
	Email                string
	Username             string
	Password             string
	PasswordConfirmation string
}

// Register creates a new user with a hashed password. Email must be unique,
// username must be unique case-insensitively.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if input.Password != input.PasswordConfirmation {
		return nil, domain.ErrPasswordMismatch
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	existing, err = uc.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:           uc.idGen.Generate(),
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Don't return the hash
	user.PasswordHash = ""

	return user, nil
}

// Authenticate verifies credentials and returns the user. Username matching is
// case-insensitive; any failure is domain.ErrInvalidCredentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !uc.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	user.PasswordHash = ""

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, userCacheKey(id)); err == nil {
			var user domain.User
			if err := json.Unmarshal(data, &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	if uc.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			_ = uc.cache.Set(ctx, userCacheKey(id), data, userCacheTTL)
		}
	}

	return user, nil
}

// UpdateUsername changes a user's username, enforcing case-insensitive
// uniqueness.
func (uc *UserUseCase) UpdateUsername(ctx context.Context, id, username string) (*domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != user.ID {
		return nil, domain.ErrUsernameTaken
	}

	user.Username = username
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)

	user.PasswordHash = ""

	return user, nil
}

// ChangePassword replaces a user's password after verifying the current one
// and the confirmation.
func (uc *UserUseCase) ChangePassword(ctx context.Context, id, current, password, confirmation string) error {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !uc.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	if password != confirmation {
		return domain.ErrPasswordMismatch
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}

	uc.invalidate(ctx, id)

	return nil
}

func (uc *UserUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, userCacheKey(id))
	}
}

func userCacheKey(id string) string {
	return "user:" + id
}
