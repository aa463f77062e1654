package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetCategories returns observed categories merged with curated suggestions.
// The scope query param narrows aggregation to "post" or "use_case";
// it defaults to "all".
func (s *Server) GetCategories(c *fiber.Ctx) error {
	scope := c.Query("scope", "all")

	categories, err := s.categoryService.GetCategories(c.Context(), scope)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"categories": categories})
}
