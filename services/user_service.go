package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"

	"growthGardenAPI/internal/user"
	"growthGardenAPI/storage"
)

type UserService struct {
	store storage.Store
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// EnsureUser provisions a User row the first time an identity presents a
// valid token. Profile fields come from the identity provider when it is
// reachable; a placeholder email keeps the row valid otherwise.
func (s *UserService) EnsureUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	in := storage.NewUser{
		ID:    id,
		Email: id + "@users.growthgarden.local",
	}

	if cu, err := clerkuser.Get(ctx, id); err != nil {
		log.Printf("Could not fetch identity profile for %s: %v", id, err)
	} else {
		if email := primaryEmail(cu.EmailAddresses, cu.PrimaryEmailAddressID); email != "" {
			in.Email = email
		}
		if name := displayName(cu.FirstName, cu.LastName); name != "" {
			in.Name = &name
		}
		if cu.ImageURL != nil && *cu.ImageURL != "" {
			in.AvatarURL = cu.ImageURL
		}
	}

	created, err := s.store.CreateUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("Provisioned new user %s", id)
	return created, nil
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*user.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req *user.UpdateProfileRequest) (*user.User, error) {
	return s.store.UpdateUser(ctx, id, req)
}

func primaryEmail(addresses []*clerk.EmailAddress, primaryID *string) string {
	for _, addr := range addresses {
		if addr == nil {
			continue
		}
		if primaryID != nil && addr.ID == *primaryID {
			return addr.EmailAddress
		}
	}
	if len(addresses) > 0 && addresses[0] != nil {
		return addresses[0].EmailAddress
	}
	return ""
}

func displayName(first, last *string) string {
	parts := make([]string, 0, 2)
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	return strings.Join(parts, " ")
}
