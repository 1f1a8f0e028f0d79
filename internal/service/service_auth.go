package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// authService is the concrete implementation of AuthService.
// Passwords are hashed with bcrypt and tokens are HS256 JWTs carrying the
// user id and role.
type authService struct {
	// userRepository is the credential store.
	userRepository store.UserRepository

	validator   validators.Validator
	idGenerator utils.IDGenerator
	now         func() time.Time

	// passwordHashCost is the bcrypt cost used for new hashes.
	passwordHashCost int

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:   userRepository,
		validator:        validators.NewRequestValidator(),
		idGenerator:      utils.NewUUIDGenerator(),
		now:              func() time.Time { return time.Now().UTC() },
		passwordHashCost: cfg.PasswordHashCost,
		tokenSignKey:     cfg.TokenSignKey,
		tokenIssuer:      cfg.TokenIssuer,
		tokenDuration:    cfg.TokenDuration,
		logger:           logger,
	}
}

// StoreStatus reports whether any account exists yet. Clients use it to
// offer the first-admin registration.
func (a *authService) StoreStatus(ctx context.Context) (models.StoreStatusResponse, error) {
	hasUsers, err := a.userRepository.HasUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.StoreStatus").Msg("failed to check store state")
		return models.StoreStatusResponse{}, fmt.Errorf("failed to check store state: %w", err)
	}

	return models.StoreStatusResponse{HasUsers: hasUsers, IsEmpty: !hasUsers}, nil
}

// RegisterUser creates a new account.
//
// The email is normalized (trimmed, lower-cased), an empty name falls back to
// the local part of the email, and the role defaults to employee. The store
// promotes the very first account to admin.
//
// Returns the persisted user or:
//   - a *validators.ValidationError for missing or malformed fields.
//   - ErrUserAlreadyExists if the email is taken.
func (a *authService) RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, request); err != nil {
		log.Debug().Err(err).Str("func", "authService.RegisterUser").Msg("invalid register request")
		return models.User{}, err
	}

	passwordHash, err := a.hashPassword(request.Password)
	if err != nil {
		log.Err(err).Str("func", "authService.RegisterUser").Msg("failed to hash password")
		return models.User{}, err
	}

	email := models.NormalizeEmail(request.Email)
	name := strings.TrimSpace(request.Name)
	if name == "" {
		name = models.EmailLocalPart(email)
	}
	role := request.Role
	if role == "" {
		role = models.RoleEmployee
	}

	now := a.now()
	user := models.User{
		ID:           a.idGenerator.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		SecretKey:    strings.TrimSpace(request.SecretKey),
		Tasks:        []models.Task{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
		}
		log.Err(err).Str("func", "authService.RegisterUser").Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().
		Str("func", "authService.RegisterUser").
		Str("user_id", registeredUser.ID).
		Str("role", string(registeredUser.Role)).
		Msg("user registered")

	return registeredUser, nil
}

// Login authenticates an existing user. An unknown email and a wrong
// password both yield ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, request); err != nil {
		return models.User{}, err
	}

	foundUser, err := a.findByEmail(ctx, "authService.Login", request.Email)
	if err != nil {
		return models.User{}, err
	}

	if !utils.CheckPassword(foundUser.PasswordHash, request.Password) {
		log.Debug().Str("func", "authService.Login").Str("user_id", foundUser.ID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}

	return foundUser, nil
}

// ResetPassword replaces the password when the supplied recovery secret
// matches the stored one. Comparison is case-sensitive, ignores surrounding
// whitespace and runs in constant time.
func (a *authService) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, request); err != nil {
		return err
	}

	foundUser, err := a.findByEmail(ctx, "authService.ResetPassword", request.Email)
	if err != nil {
		return err
	}

	storedSecret := strings.TrimSpace(foundUser.SecretKey)
	if storedSecret == "" || !utils.SecretsEqual(strings.TrimSpace(request.SecretKey), storedSecret) {
		log.Debug().Str("func", "authService.ResetPassword").Str("user_id", foundUser.ID).Msg("recovery secret mismatch")
		return ErrInvalidCredentials
	}

	passwordHash, err := a.hashPassword(request.NewPassword)
	if err != nil {
		log.Err(err).Str("func", "authService.ResetPassword").Msg("failed to hash password")
		return err
	}

	if _, err = a.userRepository.UpdateUser(ctx, foundUser.ID, models.UserUpdate{PasswordHash: &passwordHash}); err != nil {
		log.Err(err).Str("func", "authService.ResetPassword").Str("user_id", foundUser.ID).Msg("failed to store new password")
		return fmt.Errorf("failed to store new password: %w", err)
	}

	log.Info().Str("func", "authService.ResetPassword").Str("user_id", foundUser.ID).Msg("password reset")
	return nil
}

// GetProfile returns the current state of the user.
func (a *authService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", "authService.GetProfile").Str("user_id", userID).Msg("failed to load user")
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// UpdateProfile applies the non-empty fields of request to actor's account.
// A new email must not belong to another account.
func (a *authService) UpdateProfile(ctx context.Context, actor models.User, request models.ProfileUpdateRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, request); err != nil {
		return models.User{}, err
	}

	var update models.UserUpdate
	if name := strings.TrimSpace(request.Name); name != "" {
		update.Name = &name
	}
	if request.Email != "" {
		if email := models.NormalizeEmail(request.Email); email != actor.Email {
			update.Email = &email
		}
	}
	if request.Password != "" {
		passwordHash, err := a.hashPassword(request.Password)
		if err != nil {
			log.Err(err).Str("func", "authService.UpdateProfile").Msg("failed to hash password")
			return models.User{}, err
		}
		update.PasswordHash = &passwordHash
	}
	if request.SecretKey != "" {
		secret := strings.TrimSpace(request.SecretKey)
		update.SecretKey = &secret
	}

	if update.IsEmpty() {
		return a.GetProfile(ctx, actor.ID)
	}

	updatedUser, err := a.userRepository.UpdateUser(ctx, actor.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailAlreadyExists):
			return models.User{}, fmt.Errorf("%w: %w", ErrEmailInUse, err)
		case errors.Is(err, store.ErrUserNotFound):
			return models.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		log.Err(err).Str("func", "authService.UpdateProfile").Str("user_id", actor.ID).Msg("failed to update profile")
		return models.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return updatedUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, the user role, and expires after
// tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, user.Role, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.CreateToken").Msg("failed to sign token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed, bad signature)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// Authenticate verifies the token and loads its user. The returned user
// carries the role currently stored, not the one embedded in the token.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	if tokenString == "" {
		return models.User{}, ErrUnauthenticated
	}

	token, err := a.ParseToken(ctx, tokenString)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			logger.FromContext(ctx).Debug().Str("func", "authService.Authenticate").Str("user_id", token.UserID).Msg("token subject no longer exists")
			return models.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		logger.FromContext(ctx).Err(err).Str("func", "authService.Authenticate").Msg("failed to load token subject")
		return models.User{}, fmt.Errorf("failed to load token subject: %w", err)
	}

	return user, nil
}

func (a *authService) findByEmail(ctx context.Context, funcName, email string) (models.User, error) {
	user, err := a.userRepository.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}
	return user, nil
}

func (a *authService) hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password, a.passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPasswordHashingFailed, err)
	}
	return hash, nil
}

// Authorize returns ErrForbidden unless user holds one of roles.
func Authorize(user models.User, roles ...models.Role) error {
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
