// Package session holds the identity of whoever is using the dashboards.
//
// A session is one record per role in the store, written on a successful login
// and cleared on logout. HTTP requests are bound to it with a signed token.
package session

import (
	"civicconnect/backend/internal/models"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
)

// Credentials are what a login or sign-up form submits.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// Identity is an authenticated user.
type Identity struct {
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role"`
}

// Authenticator decides whether credentials identify someone.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Identity, error)
}

// StaticAuthenticator accepts exactly one configured username and password.
// Only the bcrypt hash of the password is kept.
type StaticAuthenticator struct {
	username string
	hash     []byte
}

func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &StaticAuthenticator{username: username, hash: hash}, nil
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, creds Credentials) (Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(creds.Password))
	if !userOK || passErr != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Username: a.username, Role: models.RoleAdmin}, nil
}

// CitizenAuthenticator accepts any non-blank username and password. Citizens
// have no accounts; logging in and signing up only name the session.
type CitizenAuthenticator struct{}

func (CitizenAuthenticator) Authenticate(_ context.Context, creds Credentials) (Identity, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{
		Username: username,
		Email:    strings.TrimSpace(creds.Email),
		Role:     models.RoleCitizen,
	}, nil
}
