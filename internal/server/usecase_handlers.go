package server

import (
	"p2psandbox/internal/models"
	"p2psandbox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UseCaseRequest represents the create/update request body for use cases
type UseCaseRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Industry string `json:"industry"`
	Region   string `json:"region"`
}

// GetUseCases handles listing use cases with optional filters
func (s *Server) GetUseCases(c *fiber.Ctx) error {
	limit, offset := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	useCases, err := s.useCaseService.ListUseCases(c.Context(), service.ListUseCasesInput{
		Category:      c.Query("category"),
		Industry:      c.Query("industry"),
		Sort:          c.Query("sort"),
		Limit:         limit,
		Offset:        offset,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"use_cases": useCases,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetUseCase handles fetching a single use case
func (s *Server) GetUseCase(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	currentUserID, _ := s.optionalUserID(c)

	useCase, err := s.useCaseService.GetUseCase(c.Context(), id, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(useCase)
}

// CreateUseCase handles use case creation
func (s *Server) CreateUseCase(c *fiber.Ctx) error {
	var req UseCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	useCase, err := s.useCaseService.CreateUseCase(c.Context(), service.CreateUseCaseInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Category: req.Category,
		Industry: req.Industry,
		Region:   req.Region,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(useCase)
}

// UpdateUseCase handles editing a use case. Only the author may edit.
func (s *Server) UpdateUseCase(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req UseCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	useCase, err := s.useCaseService.UpdateUseCase(c.Context(), service.UpdateUseCaseInput{
		UserID:    currentUserID(c),
		UseCaseID: id,
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Category:  req.Category,
		Industry:  req.Industry,
		Region:    req.Region,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(useCase)
}

// DeleteUseCase handles soft-deleting a use case (author or moderator)
func (s *Server) DeleteUseCase(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.useCaseService.DeleteUseCase(c.Context(), service.DeleteUseCaseInput{
		UserID:    currentUserID(c),
		UseCaseID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Use case deleted"})
}
