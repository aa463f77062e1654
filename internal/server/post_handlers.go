package server

import (
	"p2psandbox/internal/models"
	"p2psandbox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostRequest represents the create/update request body for forum posts
type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// GetPosts handles listing forum posts with optional filters
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Category:      c.Query("category"),
		Sort:          c.Query("sort"),
		Limit:         limit,
		Offset:        offset,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPost handles fetching a single forum post
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	currentUserID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles forum post creation
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles editing a forum post. Only the author may edit.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles soft-deleting a forum post (author or moderator)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLikePost flips the caller's like on a post
func (s *Server) ToggleLikePost(c *fiber.Ctx) error {
	return s.toggleEngagement(c, models.EngagementLike, models.ContentTypePost)
}

// ToggleBookmarkPost flips the caller's bookmark on a post
func (s *Server) ToggleBookmarkPost(c *fiber.Ctx) error {
	return s.toggleEngagement(c, models.EngagementBookmark, models.ContentTypePost)
}

// ToggleLikeUseCase flips the caller's like on a use case
func (s *Server) ToggleLikeUseCase(c *fiber.Ctx) error {
	return s.toggleEngagement(c, models.EngagementLike, models.ContentTypeUseCase)
}

// ToggleBookmarkUseCase flips the caller's bookmark on a use case
func (s *Server) ToggleBookmarkUseCase(c *fiber.Ctx) error {
	return s.toggleEngagement(c, models.EngagementBookmark, models.ContentTypeUseCase)
}

func (s *Server) toggleEngagement(c *fiber.Ctx, kind models.EngagementKind, contentType models.ContentType) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.Toggle(c.Context(), service.ToggleInput{
		UserID:      currentUserID(c),
		Kind:        kind,
		ContentType: contentType,
		ContentID:   id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if kind == models.EngagementBookmark {
		return c.JSON(fiber.Map{
			"bookmarked":     result.Engaged,
			"bookmark_count": result.Count,
		})
	}
	return c.JSON(fiber.Map{
		"liked":      result.Engaged,
		"like_count": result.Count,
	})
}
