package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ehub-dev/learning-hub/internal/dto"
	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/ehub-dev/learning-hub/internal/repository"
	"github.com/ehub-dev/learning-hub/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.SignupInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	Logout(ctx context.Context, tokenKey string) error

	// Operator-facing operations, driven by the CLI. They bypass the policy
	// engine on purpose: running the CLI is the trust boundary.
	CreateUser(ctx context.Context, username, password string) (*model.User, error)
	CreateSuperuser(ctx context.Context, username string, email *string, password string) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error
	SetGroup(ctx context.Context, username, groupName string) (created bool, err error)
	ClearGroups(ctx context.Context, username string) error
}

type authService struct {
	repo         repository.UserRepository
	secret       string
	redisClient  *redis.Client
	loginLockout time.Duration
}

func NewAuthService(repo repository.UserRepository, secret string, redisClient *redis.Client, loginLockout time.Duration) AuthService {
	if secret == "" {
		secret = "change-me"
	}

	return &authService{
		repo:         repo,
		secret:       secret,
		redisClient:  redisClient,
		loginLockout: loginLockout,
	}
}

func (s *authService) Register(ctx context.Context, input dto.SignupInput) (*dto.AuthResponse, error) {
	if input.Password != input.Password2 {
		return nil, fmt.Errorf("passwords must match: %w", apperror.ErrInvalidInput)
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Self-registered users start out as students.
	group, created, err := s.repo.GetOrCreateGroup(ctx, model.GroupStudent)
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("Created new group: %s", group.Name)
	}
	if err := s.repo.ReplaceGroups(ctx, user, []model.Group{*group}); err != nil {
		return nil, err
	}
	user.Groups = []model.Group{*group}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("New user registered: %s", user.Username)

	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	locked, err := IsLockedOut(ctx, s.redisClient, "login", input.Username)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, fmt.Errorf("login temporarily locked: %w", apperror.ErrRateLimitExceeded)
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", input.Username, apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if lockErr := LockOut(ctx, s.redisClient, "login", input.Username, s.loginLockout); lockErr != nil {
			log.Printf("failed to set login lockout for %s: %v", input.Username, lockErr)
		}
		return nil, apperror.ErrInvalidCredential
	}

	if err := ClearLockOut(ctx, s.redisClient, "login", input.Username); err != nil {
		log.Printf("failed to clear login lockout for %s: %v", input.Username, err)
	}

	token, err := s.currentOrNewToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("User logged in: %s", user.Username)

	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	res := dto.NewUserResponse(user)
	return &res, nil
}

func (s *authService) Logout(ctx context.Context, tokenKey string) error {
	return s.repo.DeleteTokenByKey(ctx, tokenKey)
}

func (s *authService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	return s.createAccount(ctx, username, nil, password, false)
}

func (s *authService) CreateSuperuser(ctx context.Context, username string, email *string, password string) (*model.User, error) {
	return s.createAccount(ctx, username, email, password, true)
}

func (s *authService) createAccount(ctx context.Context, username string, email *string, password string, superuser bool) (*model.User, error) {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsSuperuser:  superuser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) DeleteUser(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", username, apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

// SetGroup replaces the user's entire group set with {groupName}, creating
// the group on first reference. Replace-not-add matches the observed product
// behavior; confirm intended semantics before reusing this elsewhere.
func (s *authService) SetGroup(ctx context.Context, username, groupName string) (bool, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("user %s: %w", username, apperror.ErrNotFound)
		}
		return false, err
	}

	group, created, err := s.repo.GetOrCreateGroup(ctx, groupName)
	if err != nil {
		return false, err
	}
	if created {
		log.Printf("Created new group: %s", group.Name)
	}

	if err := s.repo.ReplaceGroups(ctx, user, []model.Group{*group}); err != nil {
		return created, err
	}

	return created, nil
}

func (s *authService) ClearGroups(ctx context.Context, username string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", username, apperror.ErrNotFound)
		}
		return err
	}

	return s.repo.ClearGroups(ctx, user)
}

// currentOrNewToken reuses the user's stored token when it still verifies,
// so repeated logins are idempotent with respect to token identity.
func (s *authService) currentOrNewToken(ctx context.Context, user *model.User) (string, error) {
	stored, err := s.repo.FindTokenByUser(ctx, user.ID)
	if err == nil {
		if _, parseErr := ParseToken(stored.Key, s.secret); parseErr == nil {
			return stored.Key, nil
		}
		// Stored token no longer verifies (e.g. secret rotation); replace it.
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return s.issueToken(ctx, user)
}

func (s *authService) issueToken(ctx context.Context, user *model.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  user.ID.String(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", err
	}

	if err := s.repo.ReplaceToken(ctx, &model.AuthToken{Key: signed, UserID: user.ID}); err != nil {
		return "", err
	}

	return signed, nil
}

// ParseToken verifies the signature and returns the subject (user ID).
func ParseToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperror.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", apperror.ErrUnauthorized
	}

	return claims.Subject, nil
}
