package model

// Piece is a chess man. It does not hold a reference to its board; every
// operation that needs one takes it explicitly.
type Piece struct {
	kind     PieceType
	color    PlayerColor
	pos      Position
	hasMoved bool
}

// NewPiece creates a piece and places it on b at pos. An out-of-bounds pos
// leaves the piece recorded there but absent from the grid.
func NewPiece(b *Board, kind PieceType, color PlayerColor, pos Position) *Piece {
	p := &Piece{kind: kind, color: color, pos: pos}
	b.Place(p, pos)
	return p
}

func (p *Piece) Type() PieceType { return p.kind }
func (p *Piece) Color() PlayerColor { return p.color }
func (p *Piece) Position() Position { return p.pos }
func (p *Piece) HasMoved() bool { return p.hasMoved }
func (p *Piece) OnBoard(b *Board) bool { return b.InBounds(p.pos) }

func (p *Piece) State() PieceState {
	return PieceState{Type: p.kind, Color: p.color, Position: p.pos, HasMoved: p.hasMoved}
}

// CanMoveTo reports whether to is a pseudo-legal destination for p on b:
// in bounds, not held by an ally, and reachable by p's movement shape.
func (p *Piece) CanMoveTo(b *Board, to Position) bool {
	if !p.OnBoard(b) || !b.InBounds(to) {
		return false
	}
	if target := b.PieceAt(to); target != nil && target.color == p.color {
		return false
	}
	return reachable(b, p, to)
}

// MoveTo relocates p to to, capturing whatever occupies it, and returns the
// captured piece. Moving to an out-of-bounds position detaches p. Legality is
// not checked.
func (p *Piece) MoveTo(b *Board, to Position) *Piece {
	b.Remove(p)
	p.pos = to

	captured := b.PieceAt(to)
	if captured != nil {
		captured.Detach(b)
	}

	b.Place(p, to)
	p.hasMoved = true
	return captured
}

// Detach takes p off the board. The piece stays usable and may be placed
// again with MoveTo.
func (p *Piece) Detach(b *Board) {
	b.Remove(p)
	p.pos = OffBoard
}
