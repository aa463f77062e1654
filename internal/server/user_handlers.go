package server

import (
	"p2psandbox/internal/models"
	"p2psandbox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

// GetMyProfile returns the authenticated user's own record
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile updates display name and bio for the authenticated user
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:      currentUserID(c),
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetUserProfile returns another user's public record
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetMyStats returns the caller's own aggregated statistics
func (s *Server) GetMyStats(c *fiber.Ctx) error {
	stats, err := s.statsService.GetUserStats(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetUserStats returns the aggregated statistics for a user
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.statsService.GetUserStats(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stats)
}

// GetMyDashboard returns the caller's stats plus recent activity
func (s *Server) GetMyDashboard(c *fiber.Ctx) error {
	dashboard, err := s.statsService.GetDashboard(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dashboard)
}

// GetMyActivity returns the caller's activity feed, newest first
func (s *Server) GetMyActivity(c *fiber.Ctx) error {
	limit, offset := parsePagination(c, 20)

	activity, err := s.statsService.GetActivity(c.Context(), currentUserID(c), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity": activity,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetMyBookmarks returns the caller's bookmarked posts and use cases
func (s *Server) GetMyBookmarks(c *fiber.Ctx) error {
	limit, offset := parsePagination(c, 20)
	userID := currentUserID(c)

	posts, err := s.engagementService.GetBookmarkedPosts(c.Context(), userID, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	useCases, err := s.engagementService.GetBookmarkedUseCases(c.Context(), userID, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":     posts,
		"use_cases": useCases,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetUserPosts returns a user's visible forum posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	limit, offset := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(c.Context(), id, limit, offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetUserUseCases returns a user's visible use cases
func (s *Server) GetUserUseCases(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	limit, offset := parsePagination(c, 20)

	useCases, err := s.useCaseService.GetUserUseCases(c.Context(), id, limit, offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"use_cases": useCases,
		"limit":     limit,
		"offset":    offset,
	})
}

// PromoteToModerator grants moderator capability to a user
func (s *Server) PromoteToModerator(c *fiber.Ctx) error {
	return s.setModerator(c, true)
}

// DemoteFromModerator removes moderator capability from a user
func (s *Server) DemoteFromModerator(c *fiber.Ctx) error {
	return s.setModerator(c, false)
}

func (s *Server) setModerator(c *fiber.Ctx, isModerator bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetModerator(c.Context(), id, isModerator)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetOrganizations lists known organizations
func (s *Server) GetOrganizations(c *fiber.Ctx) error {
	limit, offset := parsePagination(c, 50)

	orgs, err := s.userService.ListOrganizations(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"organizations": orgs,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetOrganization fetches a single organization
func (s *Server) GetOrganization(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	org, err := s.userService.GetOrganization(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(org)
}
