package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

type ProfileService struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
	today    Clock
}

func NewProfileService(profiles domain.ProfileRepository, users domain.UserRepository, today Clock) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		today:    today,
	}
}

type UpdateProfileInput struct {
	UserID      string
	Username    string
	DateOfBirth *domain.Date
}

type ChangePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// Get returns the profile, or an empty one when the user never saved it.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		p = &domain.Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	p.Email = user.Email
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (*domain.Profile, error) {
	if input.UserID == "" {
		return nil, domain.ErrProfileInvalidOwner
	}

	p, err := s.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	previous := p.Username
	if err := p.SetUsername(input.Username); err != nil {
		return nil, err
	}
	if p.Username != nil && previous == nil {
		taken, err := s.profiles.UsernameTaken(ctx, *p.Username, p.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	}

	if err := p.SetDateOfBirth(input.DateOfBirth, s.today()); err != nil {
		return nil, err
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) ChangeEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.ChangeEmail(email); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(input.CurrentPassword); err != nil {
		return err
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	return s.users.Update(ctx, user)
}
