package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OffBoard is the position of a piece that is not currently placed.
var OffBoard = Position{X: -1, Y: -1}

// Board is a fixed grid of optional occupants, indexed [y][x].
type Board struct {
	width  int
	height int
	cells  [][]*Piece
}

func NewBoard(width, height int) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, ErrInvalidBoard
	}
	b := &Board{width: width, height: height}
	for i := 0; i < height; i++ {
		b.cells = append(b.cells, make([]*Piece, width))
	}
	return b, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.width && pos.Y >= 0 && pos.Y < b.height
}

// IsEmpty is false for out-of-bounds positions.
func (b *Board) IsEmpty(pos Position) bool {
	return b.InBounds(pos) && b.cells[pos.Y][pos.X] == nil
}

// PieceAt returns nil for empty and out-of-bounds squares alike.
func (b *Board) PieceAt(pos Position) *Piece {
	if !b.InBounds(pos) {
		return nil
	}
	return b.cells[pos.Y][pos.X]
}

// Place writes p into the cell at pos. Out-of-bounds positions are ignored.
func (b *Board) Place(p *Piece, pos Position) {
	if b.InBounds(pos) {
		b.cells[pos.Y][pos.X] = p
	}
}

// Remove clears the cell recorded as p's position if p is the occupant.
func (b *Board) Remove(p *Piece) {
	if b.PieceAt(p.pos) == p {
		b.cells[p.pos.Y][p.pos.X] = nil
	}
}

type PieceState struct {
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	Position Position    `json:"position"`
	HasMoved bool        `json:"hasMoved"`
}

type BoardState struct {
	Width             int             `json:"width"`
	Height            int             `json:"height"`
	Board             [][]*PieceState `json:"board"`
	BlackKingPosition Position        `json:"blackKingPosition"`
	WhiteKingPosition Position        `json:"whiteKingPosition"`
}

func (b *Board) state() [][]*PieceState {
	grid := make([][]*PieceState, b.height)
	for y := range b.cells {
		grid[y] = make([]*PieceState, b.width)
		for x, p := range b.cells[y] {
			if p != nil {
				s := p.State()
				grid[y][x] = &s
			}
		}
	}
	return grid
}
