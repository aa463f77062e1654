package service

import (
	"context"

	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
	"p2psandbox/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName string
	Bio         string
}

func NewUserService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *UserService {
	return &UserService{userRepo: userRepo, orgRepo: orgRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 60

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 60 characters)")
		}
		user.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// IsModerator is the capability check handed to the content services. It
// covers delete only; editing stays author-only everywhere.
func (s *UserService) IsModerator(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsModerator, nil
}

func (s *UserService) SetModerator(ctx context.Context, targetID uint, isModerator bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsModerator = isModerator
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResolveOrganization infers the user's organization from their email domain,
// creating it on first sight. Consumer mail providers resolve to nil. The
// result is also stamped onto the user row so later publishes skip the
// inference.
func (s *UserService) ResolveOrganization(ctx context.Context, userID uint) (*uint, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID != nil {
		return user.OrganizationID, nil
	}

	domain := validation.EmailDomain(user.Email)
	if !validation.IsCompanyDomain(domain) {
		return nil, nil
	}

	org, err := s.orgRepo.FindOrCreateByDomain(ctx, domain, validation.OrganizationNameFromDomain(domain))
	if err != nil {
		return nil, err
	}

	user.OrganizationID = &org.ID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &org.ID, nil
}

func (s *UserService) GetOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	return s.orgRepo.GetByID(ctx, id)
}

func (s *UserService) ListOrganizations(ctx context.Context, limit, offset int) ([]models.Organization, error) {
	return s.orgRepo.List(ctx, limit, offset)
}
