package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("game %s: register connection for %s: %v", gameID, playerID, err)
		if !errors.Is(err, model.ErrAlreadyConnected) {
			// nothing else writes to c until it is registered
			if werr := c.WriteJSON(ws.NewErrorMessage(err.Error())); werr != nil {
				log.Printf("send error message: %v", werr)
			}
			c.Close()
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("game %s: read from %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, playerID, c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(gameID, playerID, c, err.Error())
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// sendError goes through the game's writer for c so it never races a state
// broadcast.
func (wsc *WebSocketController) sendError(gameID, playerID string, c *websocket.Conn, errorMsg string) {
	if err := wsc.gameService.SendMessage(gameID, playerID, c, ws.NewErrorMessage(errorMsg)); err != nil {
		log.Printf("game %s: send error message to %s: %v", gameID, playerID, err)
	}
}
