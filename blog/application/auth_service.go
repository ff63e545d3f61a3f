package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogify-app/blogify/blog/domain"
)

// ErrInvalidCredentials is returned on login with an unknown email or a wrong
// password. Callers cannot tell the two cases apart.
var ErrInvalidCredentials = errors.New("invalid email or password")

// SignUpData carries the fields for a new account.
type SignUpData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService manages accounts and the tokens that carry the acting identity.
type AuthService struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users domain.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// SignUp creates an account with a bcrypt-hashed password and returns the
// user along with a signed token.
func (s *AuthService) SignUp(ctx context.Context, data SignUpData) (*domain.User, string, error) {
	if err := validateSignUp(data); err != nil {
		return nil, "", err
	}

	_, err := s.users.GetByEmail(ctx, data.Email)
	if err == nil {
		return nil, "", domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies the credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// UserByID loads an account, e.g. to attach full author details to a new post.
func (s *AuthService) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ParseToken validates a signed token and recovers the acting identity.
func (s *AuthService) ParseToken(tokenString string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return domain.Identity{}, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Identity{}, errors.New("token is missing a subject")
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return domain.Identity{ID: sub, Name: name, Email: email}, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func validateSignUp(data SignUpData) error {
	err := validation.ValidateStruct(&data,
		validation.Field(&data.Name, validation.By(notBlank)),
		validation.Field(&data.Email, validation.By(notBlank), is.Email),
		validation.Field(&data.Password, validation.Required, validation.Length(8, 0)),
	)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for name, fieldErr := range verrs {
		fields[name] = fieldErr.Error()
	}
	return &domain.ValidationError{Fields: fields}
}
