package services

import (
	"mime/multipart"

	"mixtape/internal/apperrors"
	"mixtape/internal/logger"
	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/storage"
)

// UpdateUserInput carries a validated profile update; nil fields are left
// untouched.
type UpdateUserInput struct {
	Username    *string
	Bio         *string
	SocialLinks *map[string]string
}

// UserService handles profiles, discovery and account deletion.
type UserService struct {
	userRepo repositories.UserRepository
	store    storage.Storage
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, store storage.Storage) *UserService {
	return &UserService{userRepo: userRepo, store: store}
}

// Search pages users matching the query on username or bio.
func (s *UserService) Search(query string, page, limit int) ([]models.User, Pagination, error) {
	page, limit = ClampPage(page, limit, DefaultListLimit, MaxListLimit)
	users, total, err := s.userRepo.Search(query, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, NewPagination(page, limit, total), nil
}

// GetByID returns a user profile.
func (s *UserService) GetByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetByUsername returns a user profile by handle.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	return s.userRepo.GetByUsername(username)
}

// Discover lists users for the discovery page, excluding the viewer.
func (s *UserService) Discover(viewerID string, limit int) ([]models.User, error) {
	if limit < 1 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return s.userRepo.Discover(viewerID, limit)
}

// Update applies a self-only profile edit.
func (s *UserService) Update(viewerID, id string, input UpdateUserInput) (*models.User, error) {
	if viewerID != id {
		return nil, apperrors.Forbidden("you can only update your own profile")
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		taken, err := s.userRepo.UsernameExists(*input.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("username already taken")
		}
		user.Username = *input.Username
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.SocialLinks != nil {
		links := *input.SocialLinks
		if len(links) > 5 {
			return nil, apperrors.Validation("at most 5 social links are allowed")
		}
		for platform := range links {
			if !models.SocialPlatforms[platform] {
				return nil, apperrors.Validation("unsupported social platform: " + platform)
			}
		}
		user.SocialLinks = models.SocialLinks(links)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the viewer's own account and everything hanging off it.
func (s *UserService) Delete(viewerID, id string) error {
	if viewerID != id {
		return apperrors.Forbidden("you can only delete your own account")
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	if user.AvatarURL != "" && s.store != nil {
		if err := s.store.Remove(user.AvatarURL); err != nil {
			logger.Warn("failed to remove avatar", "user", id, "error", err)
		}
	}
	return nil
}

// UploadAvatar stores a new profile picture for the viewer.
func (s *UserService) UploadAvatar(viewerID string, file *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetByID(viewerID)
	if err != nil {
		return nil, err
	}

	url, err := s.store.Save("avatars", file)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	old := user.AvatarURL
	user.AvatarURL = url
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if old != "" {
		if err := s.store.Remove(old); err != nil {
			logger.Warn("failed to remove old avatar", "user", viewerID, "error", err)
		}
	}
	return user, nil
}
