package model

import "errors"

var (
	ErrInvalidBoard      = errors.New("invalid board setup")
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrSquareOccupied    = errors.New("square occupied")
	ErrInvalidPiece      = errors.New("invalid piece")
	ErrKingPiece         = errors.New("kings cannot be added or removed")
	ErrNoPiece           = errors.New("no piece at from square")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIllegalMove       = errors.New("invalid move, not legal")
	ErrLeavesKingInCheck = errors.New("invalid move, king would be in check")
	ErrKingCapture       = errors.New("invalid move, kings cannot be captured")
	ErrGameOver          = errors.New("game is over")
	ErrGameFull          = errors.New("game is full")
	ErrPlayerNotInGame   = errors.New("player not in game")
	ErrAlreadyConnected  = errors.New("player already connected")
)
