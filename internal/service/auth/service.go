package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/dental-clinic-api/internal/identity"
	"github.com/jwalitptl/dental-clinic-api/internal/model"
	apperrors "github.com/jwalitptl/dental-clinic-api/pkg/errors"
)

// Provider verifies credentials and issues sessions. Satisfied by
// *identity.Client.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// credentialKeywords mark a provider failure as a bad credential rather than
// an outage. Substring matching on error text is wording-dependent; it stays
// a named policy so a structured provider error code can replace it.
var credentialKeywords = []string{
	"invalid",
	"credentials",
	"password",
	"email",
	"user not found",
}

// IsCredentialError reports whether err reads like a rejected credential.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range credentialKeywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// Login delegates credential verification to the provider. Credential-style
// failures collapse to a generic unauthorized message so provider internals
// do not leak; anything else surfaces with its raw error text.
func (s *Service) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if IsCredentialError(err) {
			return nil, apperrors.Unauthorized("Invalid email or password", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("an error occurred during login: %w", err))
	}

	if session == nil || session.User == nil || session.AccessToken == "" {
		return nil, apperrors.Unauthorized("Invalid credentials", nil)
	}

	return &model.LoginResponse{
		Success: true,
		Message: "Login successful",
		User: &model.AuthUser{
			ID:        session.User.ID,
			Email:     session.User.Email,
			CreatedAt: session.User.CreatedAt,
		},
		AccessToken: session.AccessToken,
	}, nil
}
