package users

import (
	"context"

	"github.com/docvault/docvault/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates a user using verified token claims
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:   sub,
		Email: email,
		Name:  name,
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// UpdateProfile changes the user's name and/or email; blank fields keep
// their current values. Returns nil when the user does not exist.
func (s *Service) UpdateProfile(ctx context.Context, sub, name, email string) (*models.User, error) {
	cur, err := s.repo.GetBySub(ctx, sub)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, nil
	}
	if name == "" {
		name = cur.Name
	}
	if email == "" {
		email = cur.Email
	}
	return s.repo.UpdateProfile(ctx, sub, name, email)
}
