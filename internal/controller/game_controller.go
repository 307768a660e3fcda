package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on r. Fixed paths come before /:gameId.
func (gc *GameController) Register(r fiber.Router) {
	r.Post("/matchmaking/join", gc.JoinMatchmaking)
	r.Get("/matchmaking/status", gc.MatchmakingStatus)
	r.Post("/create", gc.CreateGame)
	r.Post("/join/:gameId", gc.JoinGame)
	r.Get("/:gameId", gc.GetGameState)
	r.Get("/:gameId/moves", gc.LegalMoves)
	r.Post("/:gameId/move", gc.MakeMove)
}

// CreateGame accepts an optional model.Setup body; an empty body gives the
// standard layout.
func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var setup model.Setup
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&setup); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid setup: " + err.Error(),
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(setup)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := model.Position{X: c.QueryInt("x", -1), Y: c.QueryInt("y", -1)}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var move model.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move: " + err.Error(),
		})
	}
	if err := gc.gameService.HandleMove(gameID, playerID, move); err != nil {
		return errorResponse(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	event, found, queued := gc.gameService.MatchmakingStatus(playerID)
	switch {
	case found:
		return c.JSON(fiber.Map{
			"status": "matched",
			"gameId": event.GameID,
			"color":  event.Color,
		})
	case queued:
		return c.JSON(fiber.Map{"status": "queued"})
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "idle"})
	}
}
