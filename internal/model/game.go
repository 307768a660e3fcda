package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// sendBuffer is how many messages may wait for a slow connection before it
// is dropped.
const sendBuffer = 16

// client owns the only goroutine allowed to write to conn. Messages are
// written in the order they were queued on send.
type client struct {
	conn Conn
	send chan ws.Message
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*client // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*client),
	}
}

// Game is one hosted match with its seats, clocks and observers. All access
// to the match goes through the game's mutex.
type Game struct {
	ID          string
	mu          sync.Mutex
	match       *Match
	state       GameState
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type GameState struct {
	Board          *BoardState    `json:"boardState"`
	ToMove         PlayerColor    `json:"toMove"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *Outcome       `json:"resolve"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces lists, per color, the pieces that color has taken.
type CapturedPieces struct {
	White []PieceState `json:"white"`
	Black []PieceState `json:"black"`
}

func NewGame(id string, match *Match, clock time.Duration) *Game {
	g := &Game{
		ID:          id,
		match:       match,
		connections: NewGameConnections(),
		whiteClock:  NewClock(clock),
		blackClock:  NewClock(clock),
	}
	g.state.Players.White = ClientPlayer{Color: PlayerColorWhite}
	g.state.Players.Black = ClientPlayer{Color: PlayerColorBlack}
	g.state.CapturedPieces = CapturedPieces{
		White: make([]PieceState, 0),
		Black: make([]PieceState, 0),
	}
	g.refreshStatus()
	return g
}

// refreshStatus recomputes check and outcome for the side to move.
func (g *Game) refreshStatus() {
	g.state.IsCheck = g.match.IsKingInCheck(g.match.CurrentPlayer())
	if outcome := g.match.Outcome(); outcome.Result != ResultNone {
		g.state.Resolve = &outcome
		g.whiteClock.Stop()
		g.blackClock.Stop()
		log.Printf("game %s over: %s (winner %q)", g.ID, outcome.Result, outcome.Winner)
	}
}

// AddPlayer seats playerID, white first. A player already seated gets their
// existing color back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.seatOf(playerID); ok {
		return color, nil
	}
	if g.state.Players.White.ID == "" {
		g.state.Players.White.ID = playerID
		log.Printf("game %s: %s seated as white", g.ID, playerID)
		return PlayerColorWhite, nil
	}
	if g.state.Players.Black.ID == "" {
		g.state.Players.Black.ID = playerID
		log.Printf("game %s: %s seated as black", g.ID, playerID)
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) seatOf(playerID string) (PlayerColor, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case g.state.Players.White.ID:
		return PlayerColorWhite, true
	case g.state.Players.Black.ID:
		return PlayerColorBlack, true
	}
	return "", false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	s := g.state
	s.Board = g.match.State()
	s.ToMove = g.match.CurrentPlayer()
	s.Players.White.TimeLeft = g.whiteClock.deciseconds()
	s.Players.Black.TimeLeft = g.blackClock.deciseconds()
	s.CapturedPieces.White = append([]PieceState(nil), g.state.CapturedPieces.White...)
	s.CapturedPieces.Black = append([]PieceState(nil), g.state.CapturedPieces.Black...)
	return s
}

// LegalMoves lists where the piece on from may go without exposing its king.
func (g *Game) LegalMoves(from Position) ([]Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.match.Board().PieceAt(from)
	if p == nil {
		return nil, ErrNoPiece
	}
	if g.state.Resolve != nil {
		return []Position{}, nil
	}
	return g.match.LegalMoves(p), nil
}

// MakeMove plays a move for the seated player, swaps clocks and turn, and
// recomputes check and outcome before broadcasting the new state.
func (g *Game) MakeMove(playerID string, move MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.seatOf(playerID)
	if !ok {
		return ErrPlayerNotInGame
	}
	if color != g.match.CurrentPlayer() {
		return ErrNotYourTurn
	}

	captured, err := g.match.Move(move.From, move.To)
	if err != nil {
		return fmt.Errorf("%d,%d -> %d,%d: %w", move.From.X, move.From.Y, move.To.X, move.To.Y, err)
	}
	if captured != nil {
		s := captured.State()
		s.Position = move.To
		switch color {
		case PlayerColorWhite:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, s)
		case PlayerColorBlack:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, s)
		}
	}

	if color == PlayerColorWhite {
		g.whiteClock.Stop()
		g.blackClock.Start()
	} else {
		g.blackClock.Stop()
		g.whiteClock.Start()
	}

	g.match.SwitchTurn()
	g.state.LastMove = &SimpleMove{From: move.From, To: move.To}
	log.Printf("game %s: %s moved %d,%d -> %d,%d", g.ID, color, move.From.X, move.From.Y, move.To.X, move.To.Y)
	g.refreshStatus()

	g.broadcastState(g.snapshot())
	return nil
}

// RegisterConnection attaches conn for playerID and queues the current
// state for it. A second connection for the same player is closed and
// ErrAlreadyConnected returned; the first one stays in place.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	err := g.attach(playerID, conn)
	if !errors.Is(err, ErrAlreadyConnected) {
		return err
	}

	if werr := conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(
			websocket.CloseNormalClosure,
			"Connection already exists",
		),
	); werr != nil {
		log.Printf("game %s: close message to duplicate connection for %s: %v", g.ID, playerID, werr)
	}
	if cerr := conn.Close(); cerr != nil {
		log.Printf("game %s: close duplicate connection for %s: %v", g.ID, playerID, cerr)
	}
	return err
}

func (g *Game) attach(playerID string, conn Conn) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) && !g.canSpectate() {
		return ErrPlayerNotInGame
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	c := &client{conn: conn, send: make(chan ws.Message, sendBuffer)}
	g.connections.connections[playerID] = c
	g.connections.mu.Unlock()
	go g.writeLoop(playerID, c)
	log.Printf("game %s: registered connection for %s", g.ID, playerID)

	msg, err := stateMessage(g.snapshot())
	if err != nil {
		log.Printf("game %s: marshal state: %v", g.ID, err)
		return nil
	}
	g.enqueue(playerID, c, msg)
	return nil
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.seatOf(playerID)
	return ok
}

// UnregisterConnection detaches conn. It is a no-op when playerID is
// registered with a different connection.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if c, exists := g.connections.connections[playerID]; exists && c.conn == conn {
		log.Printf("game %s: unregistering connection for %s", g.ID, playerID)
		g.dropLocked(playerID, c)
	}
}

// Send queues msg for conn behind any state updates already queued for it.
func (g *Game) Send(playerID string, conn Conn, msg ws.Message) error {
	g.connections.mu.RLock()
	c, exists := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !exists || c.conn != conn {
		return ErrPlayerNotInGame
	}
	g.enqueue(playerID, c, msg)
	return nil
}

func stateMessage(state GameState) (ws.Message, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return ws.Message{}, err
	}
	return ws.Message{Type: ws.MessageTypeGameState, Payload: payload}, nil
}

// broadcastState queues state for every registered connection. Callers hold
// g.mu, so states are queued in the order moves were made.
func (g *Game) broadcastState(state GameState) {
	msg, err := stateMessage(state)
	if err != nil {
		log.Printf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]*client, len(g.connections.connections))
	for playerID, c := range g.connections.connections {
		active[playerID] = c
	}
	g.connections.mu.RUnlock()

	for playerID, c := range active {
		g.enqueue(playerID, c, msg)
	}
}

// enqueue hands msg to c's writer. A connection whose buffer is full is
// dropped rather than blocking the game.
func (g *Game) enqueue(playerID string, c *client, msg ws.Message) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if g.connections.connections[playerID] != c {
		return
	}
	select {
	case c.send <- msg:
	default:
		log.Printf("game %s: connection for %s is not keeping up, dropping it", g.ID, playerID)
		g.dropLocked(playerID, c)
	}
}

// writeLoop is the single writer for c. It stops when c is dropped or a
// write fails.
func (g *Game) writeLoop(playerID string, c *client) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: send to %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == c {
				g.dropLocked(playerID, c)
			}
			g.connections.mu.Unlock()
			return
		}
	}
}

// dropLocked removes c and stops its writer. Callers hold g.connections.mu.
func (g *Game) dropLocked(playerID string, c *client) {
	delete(g.connections.connections, playerID)
	close(c.send)
}
