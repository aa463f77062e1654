package server

import (
	"p2psandbox/internal/models"
	"p2psandbox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DraftRequest represents the save-draft request body. Every field except the
// content type may be empty; validation happens at publish time.
type DraftRequest struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Industry    string `json:"industry"`
	Region      string `json:"region"`
}

// GetMyDrafts lists the caller's drafts, most recently edited first
func (s *Server) GetMyDrafts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c, 20)

	drafts, err := s.draftService.ListDrafts(c.Context(), currentUserID(c), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"drafts": drafts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetDraft fetches one of the caller's drafts
func (s *Server) GetDraft(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	draft, err := s.draftService.GetDraft(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(draft)
}

// SaveDraft creates a new draft
func (s *Server) SaveDraft(c *fiber.Ctx) error {
	return s.saveDraft(c, 0)
}

// UpdateDraft replaces an existing draft's content
func (s *Server) UpdateDraft(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	return s.saveDraft(c, id)
}

func (s *Server) saveDraft(c *fiber.Ctx, draftID uint) error {
	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	draft, err := s.draftService.SaveDraft(c.Context(), service.SaveDraftInput{
		UserID:      currentUserID(c),
		DraftID:     draftID,
		ContentType: models.ContentType(req.ContentType),
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Category:    req.Category,
		Industry:    req.Industry,
		Region:      req.Region,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if draftID == 0 {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(draft)
}

// DeleteDraft removes one of the caller's drafts
func (s *Server) DeleteDraft(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.draftService.DeleteDraft(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Draft deleted"})
}

// PublishDraft converts a draft into a live post or use case
func (s *Server) PublishDraft(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.draftService.PublishDraft(c.Context(), service.PublishDraftInput{
		UserID:  currentUserID(c),
		DraftID: id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
