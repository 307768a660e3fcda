package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrPlayerNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrGameOver), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNoPiece),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrLeavesKingInCheck),
		errors.Is(err, model.ErrKingCapture),
		errors.Is(err, model.ErrInvalidBoard),
		errors.Is(err, model.ErrInvalidPiece),
		errors.Is(err, model.ErrKingPiece),
		errors.Is(err, model.ErrSquareOccupied),
		errors.Is(err, model.ErrOutOfBounds):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
