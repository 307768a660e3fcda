// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// MatchFoundEvent tells a queued player which game and color they were paired into.
type MatchFoundEvent struct {
	GameID string            `json:"gameId"`
	Color  model.PlayerColor `json:"color"`
}

type GameManager struct {
	games   map[string]*model.Game
	queue   *model.Queue
	matched map[string]MatchFoundEvent // playerID -> pairing not yet collected
	clock   time.Duration
	mu      sync.RWMutex
}

func NewGameManager(clock time.Duration) *GameManager {
	return &GameManager{
		games:   make(map[string]*model.Game),
		queue:   model.NewQueue(),
		matched: make(map[string]MatchFoundEvent),
		clock:   clock,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// processMatchmaking seats every available pair in a fresh standard game.
func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, model.NewStandardMatch(), gm.clock)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Printf("matchmaking: seat %s: %v", player1.ID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Printf("matchmaking: seat %s: %v", player2.ID, err)
			continue
		}
		gm.games[gameID] = game
		gm.matched[player1.ID] = MatchFoundEvent{GameID: gameID, Color: p1Color}
		gm.matched[player2.ID] = MatchFoundEvent{GameID: gameID, Color: p2Color}
		log.Printf("matchmaking: paired %s and %s in game %s", player1.ID, player2.ID, gameID)
	}
}

func (gm *GameManager) CreateGame(gameID string, setup model.Setup) error {
	match, err := model.NewMatchFromSetup(setup)
	if err != nil {
		return err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = model.NewGame(gameID, match, gm.clock)
	log.Printf("created game %s", gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

// JoinMatchmaking queues playerID, discarding any pairing it has not collected.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.matched, playerID)
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	return nil
}

// MatchmakingStatus reports the pairing for playerID, if one was made, and
// whether the player is still waiting in the queue. A pairing is reported
// once.
func (gm *GameManager) MatchmakingStatus(playerID string) (event MatchFoundEvent, found bool, queued bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	event, found = gm.matched[playerID]
	if found {
		delete(gm.matched, playerID)
	}
	return event, found, gm.queue.Contains(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.MoveRequest) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// SendMessage queues msg on conn behind the game's pending state updates.
func (gm *GameManager) SendMessage(gameID string, playerID string, conn model.Conn, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, conn, msg)
}
