package service

import (
	"context"
	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  model.Role
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	VerifyToken(token string) (*Principal, error)
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Session) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Validation("a valid email is required")
	}
	if name == "" {
		return nil, "", apperr.Validation("name is required")
	}
	if len(password) < 8 {
		return nil, "", apperr.Validation("password must be at least 8 characters")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", apperr.Validation("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// do not reveal whether the email exists
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authServiceImpl) mintToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authServiceImpl) VerifyToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("invalid session claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, apperr.Unauthorized("invalid session subject")
	}

	return &Principal{
		ID:    sub,
		Email: email,
		Name:  name,
		Role:  model.Role(role),
	}, nil
}
