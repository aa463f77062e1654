package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"p2psandbox/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxPaginationLimit = 100

// errResponseWritten signals that the helper already wrote an error response
// to the client; handlers should return nil when they see it.
var errResponseWritten = errors.New("response already written")

// parseID reads a numeric path parameter and writes a 400 response itself
// when it is missing or malformed.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Invalid %s", humanizeParam(param))))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx, defaultLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// humanizeParam turns a path parameter name like "useCaseID" into "use case ID"
// for error messages.
func humanizeParam(param string) string {
	words := splitCamel(param)
	for i, w := range words {
		if strings.EqualFold(w, "id") {
			words[i] = "ID"
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(s string) []string {
	var words []string
	var current strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) && current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		words = append(words, strings.ToLower(current.String()))
	}
	return words
}

// currentUserID pulls the authenticated user ID that AuthRequired stored.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// respondServiceError maps service-layer AppErrors onto HTTP status codes.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
