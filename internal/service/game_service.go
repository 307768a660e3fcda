package service

import (
	"context"
	"fmt"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// StartMatchmaking runs the pairing loop in the background until ctx is done.
func (gs *GameService) StartMatchmaking(ctx context.Context, interval time.Duration) {
	go gs.gameManager.Run(ctx, interval)
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame hosts a new game under a fresh id. A zero setup means the
// standard layout.
func (gs *GameService) CreateGame(setup model.Setup) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, setup); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) (MatchFoundEvent, bool, bool) {
	return gs.gameManager.MatchmakingStatus(playerID)
}

// GameExists reports whether gameID names a hosted game.
func (gs *GameService) GameExists(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) error {
	if err := gs.gameManager.MakeMove(gameID, playerID, move); err != nil {
		return err
	}

	return nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendMessage(gameID string, playerID string, conn model.Conn, msg ws.Message) error {
	return gs.gameManager.SendMessage(gameID, playerID, conn, msg)
}
