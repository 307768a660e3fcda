package model

import "fmt"

// MoveRequest is what a client sends to make a move.
type MoveRequest struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// PieceSpec describes one piece of a custom starting layout.
type PieceSpec struct {
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	Position Position    `json:"position"`
}

// Setup describes a custom starting layout. The zero value means the
// standard layout.
type Setup struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	BlackKing Position    `json:"blackKing"`
	WhiteKing Position    `json:"whiteKing"`
	ToMove    PlayerColor `json:"toMove"`
	Pieces    []PieceSpec `json:"pieces"`
}

func (s Setup) IsZero() bool {
	return s.Width == 0 && s.Height == 0 && len(s.Pieces) == 0
}

// NewMatchFromSetup builds a match from s, or the standard layout when s is
// the zero value. A layout where the side not to move is in check is refused.
func NewMatchFromSetup(s Setup) (*Match, error) {
	if s.IsZero() {
		return NewStandardMatch(), nil
	}
	m, err := NewMatch(s.Width, s.Height, s.BlackKing, s.WhiteKing)
	if err != nil {
		return nil, err
	}
	for i, spec := range s.Pieces {
		if _, err := m.AddPiece(spec.Type, spec.Color, spec.Position); err != nil {
			return nil, fmt.Errorf("piece %d (%s %s at %d,%d): %w", i, spec.Color, spec.Type, spec.Position.X, spec.Position.Y, err)
		}
	}
	if s.ToMove != "" {
		if !s.ToMove.Valid() {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidBoard, s.ToMove)
		}
		m.SetCurrentPlayer(s.ToMove)
	}
	if idle := m.CurrentPlayer().Opponent(); m.IsKingInCheck(idle) {
		return nil, fmt.Errorf("%w: %s king in check with %s to move", ErrInvalidBoard, idle, m.CurrentPlayer())
	}
	return m, nil
}
