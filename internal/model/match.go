package model

import "fmt"

type Result string

const (
	ResultNone      Result = ""
	ResultCheckmate Result = "checkmate"
	ResultStalemate Result = "stalemate"
)

type Outcome struct {
	Result Result      `json:"result"`
	Winner PlayerColor `json:"winner,omitempty"`
}

// Match owns the board, one roster per color and the side to move. It is
// not safe for concurrent use: CanMove and the checks built on it mutate the
// board while probing and restore it before returning.
type Match struct {
	board     *Board
	black     []*Piece
	white     []*Piece
	blackKing *Piece
	whiteKing *Piece
	toMove    PlayerColor
}

// NewMatch creates a width x height board holding only the two kings.
// White moves first.
func NewMatch(width, height int, blackKing, whiteKing Position) (*Match, error) {
	board, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	if !board.InBounds(blackKing) || !board.InBounds(whiteKing) {
		return nil, fmt.Errorf("%w: king %w", ErrInvalidBoard, ErrOutOfBounds)
	}
	if blackKing == whiteKing {
		return nil, fmt.Errorf("%w: kings share a square", ErrInvalidBoard)
	}

	m := &Match{board: board, toMove: PlayerColorWhite}
	m.blackKing = m.add(King, PlayerColorBlack, blackKing)
	m.whiteKing = m.add(King, PlayerColorWhite, whiteKing)
	return m, nil
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewStandardMatch sets up the usual 32 pieces. Black starts on the low X
// ranks and advances toward higher X.
func NewStandardMatch() *Match {
	m, err := NewMatch(8, 8, Position{X: 0, Y: 4}, Position{X: 7, Y: 4})
	if err != nil {
		panic(err)
	}
	for y, kind := range backRank {
		if kind != King {
			m.add(kind, PlayerColorBlack, Position{X: 0, Y: y})
			m.add(kind, PlayerColorWhite, Position{X: 7, Y: y})
		}
	}
	for y := 0; y < 8; y++ {
		m.add(Pawn, PlayerColorBlack, Position{X: 1, Y: y})
		m.add(Pawn, PlayerColorWhite, Position{X: 6, Y: y})
	}
	return m
}

func (m *Match) add(kind PieceType, color PlayerColor, pos Position) *Piece {
	p := NewPiece(m.board, kind, color, pos)
	r := m.roster(color)
	*r = append(*r, p)
	return p
}

// AddPiece creates a non-king piece and appends it to its color's roster.
// An off-board pos is accepted and yields a detached roster member.
func (m *Match) AddPiece(kind PieceType, color PlayerColor, pos Position) (*Piece, error) {
	if !kind.valid() || !color.Valid() {
		return nil, ErrInvalidPiece
	}
	if kind == King {
		return nil, ErrKingPiece
	}
	if m.board.InBounds(pos) && !m.board.IsEmpty(pos) {
		return nil, ErrSquareOccupied
	}
	return m.add(kind, color, pos), nil
}

// RemovePiece detaches p from the board and drops it from its roster.
func (m *Match) RemovePiece(p *Piece) error {
	if p == m.blackKing || p == m.whiteKing {
		return ErrKingPiece
	}
	p.Detach(m.board)
	m.drop(p)
	return nil
}

func (m *Match) drop(p *Piece) {
	r := m.roster(p.color)
	for i, q := range *r {
		if q == p {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return
		}
	}
}

func (m *Match) roster(c PlayerColor) *[]*Piece {
	if c == PlayerColorBlack {
		return &m.black
	}
	return &m.white
}

func (m *Match) Board() *Board { return m.board }

// Roster returns a copy of c's live pieces in insertion order.
func (m *Match) Roster(c PlayerColor) []*Piece {
	r := *m.roster(c)
	out := make([]*Piece, len(r))
	copy(out, r)
	return out
}

func (m *Match) King(c PlayerColor) *Piece {
	if c == PlayerColorBlack {
		return m.blackKing
	}
	return m.whiteKing
}

func (m *Match) CurrentPlayer() PlayerColor { return m.toMove }

func (m *Match) SetCurrentPlayer(c PlayerColor) { m.toMove = c }

func (m *Match) SwitchTurn() {
	m.toMove = m.toMove.Opponent()
}

func (m *Match) CanMoveTo(p *Piece, to Position) bool {
	return p.CanMoveTo(m.board, to)
}

// MoveTo moves p without any legality check. A captured non-king piece is
// dropped from its roster.
func (m *Match) MoveTo(p *Piece, to Position) *Piece {
	captured := p.MoveTo(m.board, to)
	if captured != nil && captured.kind != King {
		m.drop(captured)
	}
	return captured
}

// Move plays the current player's piece at from to to. The move must be
// pseudo-legal, must not take a king and must not leave the mover's king in
// check. The turn is not switched.
func (m *Match) Move(from, to Position) (*Piece, error) {
	p := m.board.PieceAt(from)
	if p == nil {
		return nil, ErrNoPiece
	}
	if p.color != m.toMove {
		return nil, ErrNotYourTurn
	}
	if !p.CanMoveTo(m.board, to) {
		return nil, ErrIllegalMove
	}
	if m.takesKing(to) {
		return nil, ErrKingCapture
	}
	if !m.keepsKingSafe(p, to) {
		return nil, ErrLeavesKingInCheck
	}
	return m.MoveTo(p, to), nil
}

// LegalMoves lists the destinations Move would accept for p.
func (m *Match) LegalMoves(p *Piece) []Position {
	moves := []Position{}
	for x := 0; x < m.board.width; x++ {
		for y := 0; y < m.board.height; y++ {
			to := Position{X: x, Y: y}
			if p.CanMoveTo(m.board, to) && !m.takesKing(to) && m.keepsKingSafe(p, to) {
				moves = append(moves, to)
			}
		}
	}
	return moves
}

// takesKing reports whether to holds a king. Attacks on a king still count
// for check, but a king is never actually captured.
func (m *Match) takesKing(to Position) bool {
	target := m.board.PieceAt(to)
	return target != nil && target.kind == King
}

// IsKingInCheck reports whether any piece of the opposing roster can move
// onto the square of c's king.
func (m *Match) IsKingInCheck(c PlayerColor) bool {
	target := m.King(c).pos
	for _, p := range *m.roster(c.Opponent()) {
		if p.CanMoveTo(m.board, target) {
			return true
		}
	}
	return false
}

// CanMove reports whether c has any move that leaves its king out of check.
// Squares are scanned by X then Y, and pieces in roster order.
func (m *Match) CanMove(c PlayerColor) bool {
	pieces := *m.roster(c)
	for x := 0; x < m.board.width; x++ {
		for y := 0; y < m.board.height; y++ {
			to := Position{X: x, Y: y}
			for _, p := range pieces {
				if p.CanMoveTo(m.board, to) && m.keepsKingSafe(p, to) {
					return true
				}
			}
		}
	}
	return false
}

func (m *Match) IsCheckmate(c PlayerColor) bool {
	return m.IsKingInCheck(c) && !m.CanMove(c)
}

func (m *Match) IsStalemate(c PlayerColor) bool {
	return !m.IsKingInCheck(c) && !m.CanMove(c)
}

// Outcome tests checkmate for both colors before testing whether the side to
// move is stalemated.
func (m *Match) Outcome() Outcome {
	for _, c := range []PlayerColor{PlayerColorBlack, PlayerColorWhite} {
		if m.IsCheckmate(c) {
			return Outcome{Result: ResultCheckmate, Winner: c.Opponent()}
		}
	}
	if !m.CanMove(m.toMove) {
		return Outcome{Result: ResultStalemate}
	}
	return Outcome{Result: ResultNone}
}

func (m *Match) IsGameOver() bool {
	return m.Outcome().Result != ResultNone
}

func (m *Match) keepsKingSafe(p *Piece, to Position) bool {
	return m.probe(p, to, func() bool {
		return !m.IsKingInCheck(p.color)
	})
}

// probe plays p to to, evaluates test on the resulting board and restores
// the snapshot before returning: the mover's square, position and moved
// flag, and the captured piece's square and position. Rosters are never
// touched, and a captured piece is inert while detached.
func (m *Match) probe(p *Piece, to Position, test func() bool) bool {
	from, moved := p.pos, p.hasMoved
	captured := p.MoveTo(m.board, to)
	defer func() {
		m.board.Remove(p)
		p.pos, p.hasMoved = from, moved
		m.board.Place(p, from)
		if captured != nil {
			captured.pos = to
			m.board.Place(captured, to)
		}
	}()
	return test()
}

func (m *Match) State() *BoardState {
	return &BoardState{
		Width:             m.board.width,
		Height:            m.board.height,
		Board:             m.board.state(),
		BlackKingPosition: m.blackKing.pos,
		WhiteKingPosition: m.whiteKing.pos,
	}
}
