package model

import (
	"errors"
	"testing"
)

// newKingsMatch mirrors the bare two-king layout used by the setup helpers:
// black king at 1,5 and white king at 0,7.
func newKingsMatch(t *testing.T) *Match {
	t.Helper()
	m, err := NewMatch(8, 8, pos(1, 5), pos(0, 7))
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	return m
}

func mustAdd(t *testing.T, m *Match, kind PieceType, color PlayerColor, at Position) *Piece {
	t.Helper()
	p, err := m.AddPiece(kind, color, at)
	if err != nil {
		t.Fatalf("add %s %s at %+v: %v", color, kind, at, err)
	}
	return p
}

func TestNewMatchPreconditions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		black, white  Position
	}{
		{"zero width", 0, 8, pos(0, 0), pos(1, 1)},
		{"black king off board", 8, 8, pos(8, 0), pos(1, 1)},
		{"white king off board", 8, 8, pos(0, 0), OffBoard},
		{"shared square", 8, 8, pos(3, 3), pos(3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMatch(tt.width, tt.height, tt.black, tt.white); !errors.Is(err, ErrInvalidBoard) {
				t.Fatalf("expected ErrInvalidBoard, got %v", err)
			}
		})
	}
}

func TestNewMatchKingsAndTurn(t *testing.T) {
	m := newKingsMatch(t)

	if m.CurrentPlayer() != PlayerColorWhite {
		t.Fatalf("white should move first, got %s", m.CurrentPlayer())
	}
	bk, wk := m.King(PlayerColorBlack), m.King(PlayerColorWhite)
	if bk.Type() != King || bk.Position() != pos(1, 5) || m.Board().PieceAt(pos(1, 5)) != bk {
		t.Fatalf("black king not placed: %+v", bk.State())
	}
	if wk.Type() != King || wk.Position() != pos(0, 7) {
		t.Fatalf("white king not placed: %+v", wk.State())
	}
	if r := m.Roster(PlayerColorBlack); len(r) != 1 || r[0] != bk {
		t.Fatalf("black roster should hold only the king, got %d pieces", len(r))
	}
}

func TestAddPieceValidation(t *testing.T) {
	m := newKingsMatch(t)

	if _, err := m.AddPiece(King, PlayerColorWhite, pos(4, 4)); !errors.Is(err, ErrKingPiece) {
		t.Errorf("adding a king: expected ErrKingPiece, got %v", err)
	}
	if _, err := m.AddPiece("dragon", PlayerColorWhite, pos(4, 4)); !errors.Is(err, ErrInvalidPiece) {
		t.Errorf("unknown kind: expected ErrInvalidPiece, got %v", err)
	}
	if _, err := m.AddPiece(Rook, "green", pos(4, 4)); !errors.Is(err, ErrInvalidPiece) {
		t.Errorf("unknown color: expected ErrInvalidPiece, got %v", err)
	}
	if _, err := m.AddPiece(Rook, PlayerColorWhite, pos(1, 5)); !errors.Is(err, ErrSquareOccupied) {
		t.Errorf("occupied square: expected ErrSquareOccupied, got %v", err)
	}

	detached := mustAdd(t, m, Knight, PlayerColorBlack, pos(9, 9))
	if detached.OnBoard(m.Board()) {
		t.Errorf("off-board add should leave the piece detached")
	}
	if r := m.Roster(PlayerColorBlack); len(r) != 2 || r[1] != detached {
		t.Errorf("detached piece should still join the roster")
	}
}

func TestSwitchingTurns(t *testing.T) {
	m := newKingsMatch(t)
	m.SetCurrentPlayer(PlayerColorBlack)

	if m.CurrentPlayer() != PlayerColorBlack {
		t.Fatalf("expected black to move")
	}
	m.SwitchTurn()
	if m.CurrentPlayer() != PlayerColorWhite {
		t.Fatalf("expected white to move")
	}
	m.SwitchTurn()
	if m.CurrentPlayer() != PlayerColorBlack {
		t.Fatalf("expected black to move again")
	}
}

func TestKingChecked(t *testing.T) {
	m := newKingsMatch(t)
	m.MoveTo(m.King(PlayerColorBlack), pos(0, 0))

	queen := mustAdd(t, m, Queen, PlayerColorWhite, pos(3, 0))
	if !m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("expected black king in check")
	}
	if m.IsKingInCheck(PlayerColorWhite) {
		t.Fatalf("white king is not attacked")
	}

	if err := m.RemovePiece(queen); err != nil {
		t.Fatalf("remove queen: %v", err)
	}
	if m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("expected no check after removing the queen")
	}
	if queen.OnBoard(m.Board()) || len(m.Roster(PlayerColorWhite)) != 1 {
		t.Fatalf("removed queen should be detached and out of the roster")
	}
}

func TestCheckBlockedByAnyPiece(t *testing.T) {
	m := newKingsMatch(t)
	m.MoveTo(m.King(PlayerColorBlack), pos(0, 0))
	mustAdd(t, m, Rook, PlayerColorWhite, pos(0, 6))

	if !m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("rook on the same rank should give check")
	}
	blocker := mustAdd(t, m, Knight, PlayerColorBlack, pos(0, 3))
	if m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("own piece in between should block the check")
	}
	m.RemovePiece(blocker)
	mustAdd(t, m, Knight, PlayerColorWhite, pos(0, 3))
	if m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("enemy piece in between should block the check as well")
	}
}

func TestRemovePieceRejectsKings(t *testing.T) {
	m := newKingsMatch(t)
	for _, c := range []PlayerColor{PlayerColorBlack, PlayerColorWhite} {
		if err := m.RemovePiece(m.King(c)); !errors.Is(err, ErrKingPiece) {
			t.Errorf("removing %s king: expected ErrKingPiece, got %v", c, err)
		}
		if !m.King(c).OnBoard(m.Board()) {
			t.Errorf("%s king should still be on the board", c)
		}
	}
}

func TestCheckmateFound(t *testing.T) {
	m := newKingsMatch(t)
	m.MoveTo(m.King(PlayerColorBlack), pos(4, 4))
	queen1 := mustAdd(t, m, Queen, PlayerColorWhite, pos(3, 3))
	mustAdd(t, m, Queen, PlayerColorWhite, pos(5, 5))

	if !m.IsCheckmate(PlayerColorBlack) {
		t.Fatalf("expected black to be checkmated")
	}

	if err := m.RemovePiece(queen1); err != nil {
		t.Fatalf("remove queen: %v", err)
	}
	if m.IsCheckmate(PlayerColorBlack) {
		t.Fatalf("black king can take the remaining queen")
	}
}

func TestCornerCheckmate(t *testing.T) {
	m, err := NewMatch(8, 8, pos(0, 0), pos(7, 7))
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	attacker := mustAdd(t, m, Queen, PlayerColorWhite, pos(2, 0))
	mustAdd(t, m, Queen, PlayerColorWhite, pos(3, 1))

	if !m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("expected check from the queen on 2,0")
	}
	if !m.IsCheckmate(PlayerColorBlack) {
		t.Fatalf("expected checkmate in the corner")
	}
	if got := m.Outcome(); got.Result != ResultCheckmate || got.Winner != PlayerColorWhite {
		t.Fatalf("unexpected outcome %+v", got)
	}
	if !m.IsGameOver() {
		t.Fatalf("checkmate should end the game")
	}

	m.RemovePiece(attacker)
	if m.IsKingInCheck(PlayerColorBlack) || m.IsCheckmate(PlayerColorBlack) {
		t.Fatalf("without the sole attacker there is no check")
	}
}

func TestCheckmateAvoidedByInterposition(t *testing.T) {
	m, err := NewMatch(8, 8, pos(0, 0), pos(7, 7))
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	mustAdd(t, m, Rook, PlayerColorWhite, pos(0, 6))
	mustAdd(t, m, Rook, PlayerColorWhite, pos(1, 6))

	if !m.IsCheckmate(PlayerColorBlack) {
		t.Fatalf("expected back rank mate")
	}

	mustAdd(t, m, Bishop, PlayerColorBlack, pos(2, 1))
	if m.IsCheckmate(PlayerColorBlack) {
		t.Fatalf("bishop can interpose on 0,3, expected no mate")
	}
}

func TestLegalMovesStalemate(t *testing.T) {
	m := newKingsMatch(t)
	mustAdd(t, m, Queen, PlayerColorBlack, pos(2, 6))

	if m.IsKingInCheck(PlayerColorWhite) {
		t.Fatalf("white king should not be in check")
	}
	if m.CanMove(PlayerColorWhite) {
		t.Fatalf("white has no legal move")
	}
	if !m.IsStalemate(PlayerColorWhite) {
		t.Fatalf("expected white stalemated")
	}
	if !m.CanMove(PlayerColorBlack) {
		t.Fatalf("black still has moves")
	}

	if got := m.Outcome(); got.Result != ResultStalemate {
		t.Fatalf("white to move should be stalemate, got %+v", got)
	}
	m.SwitchTurn()
	if m.IsGameOver() {
		t.Fatalf("black to move is not stalemated")
	}
}

func TestProbeRestoresBoard(t *testing.T) {
	m := NewStandardMatch()
	b := m.Board()
	before := m.State()

	pawn := b.PieceAt(pos(6, 3))
	// a black knight the white pawns can capture while probing
	victim := mustAdd(t, m, Knight, PlayerColorBlack, pos(5, 2))

	if !m.CanMove(PlayerColorWhite) || !m.CanMove(PlayerColorBlack) {
		t.Fatalf("both sides have moves in the opening")
	}
	if m.IsCheckmate(PlayerColorWhite) || m.IsStalemate(PlayerColorBlack) {
		t.Fatalf("opening position is neither mate nor stalemate")
	}
	m.LegalMoves(pawn)

	if pawn.HasMoved() {
		t.Fatalf("probing must not consume the pawn's first move")
	}
	if !m.CanMoveTo(pawn, pos(4, 3)) {
		t.Fatalf("double step should still be available")
	}
	if victim.Position() != pos(5, 2) || b.PieceAt(pos(5, 2)) != victim {
		t.Fatalf("captured piece not restored: %+v", victim.Position())
	}
	if n := len(m.Roster(PlayerColorBlack)); n != 17 {
		t.Fatalf("expected 17 black pieces after probing, got %d", n)
	}

	m.RemovePiece(victim)
	after := m.State()
	for y := range before.Board {
		for x := range before.Board[y] {
			a, z := before.Board[y][x], after.Board[y][x]
			if (a == nil) != (z == nil) || (a != nil && *a != *z) {
				t.Fatalf("square %d,%d changed: %+v -> %+v", x, y, a, z)
			}
		}
	}
}

func TestMoveTurnAndLegality(t *testing.T) {
	m := NewStandardMatch()

	if _, err := m.Move(pos(3, 3), pos(4, 3)); !errors.Is(err, ErrNoPiece) {
		t.Errorf("empty square: expected ErrNoPiece, got %v", err)
	}
	if _, err := m.Move(pos(1, 3), pos(2, 3)); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("black piece on white's turn: expected ErrNotYourTurn, got %v", err)
	}
	if _, err := m.Move(pos(7, 0), pos(5, 0)); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("rook through its pawn: expected ErrIllegalMove, got %v", err)
	}
	if _, err := m.Move(pos(6, 4), pos(4, 4)); err != nil {
		t.Fatalf("e-pawn double step: %v", err)
	}
	if m.CurrentPlayer() != PlayerColorWhite {
		t.Fatalf("Move must not switch the turn")
	}
}

func TestMoveRefusesSelfCheck(t *testing.T) {
	m, err := NewMatch(8, 8, pos(0, 0), pos(7, 7))
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	pinned := mustAdd(t, m, Rook, PlayerColorBlack, pos(0, 3))
	mustAdd(t, m, Rook, PlayerColorWhite, pos(0, 6))
	m.SetCurrentPlayer(PlayerColorBlack)

	if _, err := m.Move(pos(0, 3), pos(3, 3)); !errors.Is(err, ErrLeavesKingInCheck) {
		t.Fatalf("pinned rook leaving the line: expected ErrLeavesKingInCheck, got %v", err)
	}
	if pinned.Position() != pos(0, 3) || pinned.HasMoved() {
		t.Fatalf("refused move left traces: %+v", pinned.State())
	}

	captured, err := m.Move(pos(0, 3), pos(0, 6))
	if err != nil {
		t.Fatalf("capturing the pinning rook: %v", err)
	}
	if captured == nil || captured.Color() != PlayerColorWhite {
		t.Fatalf("expected the white rook captured, got %+v", captured)
	}
	if n := len(m.Roster(PlayerColorWhite)); n != 1 {
		t.Fatalf("captured rook should leave the roster, %d white pieces remain", n)
	}
}

func TestMoveNeverTakesAKing(t *testing.T) {
	m, err := NewMatch(8, 8, pos(0, 0), pos(7, 7))
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	rook := mustAdd(t, m, Rook, PlayerColorWhite, pos(0, 5))
	king := m.King(PlayerColorBlack)

	if !m.CanMoveTo(rook, pos(0, 0)) || !m.IsKingInCheck(PlayerColorBlack) {
		t.Fatalf("the rook should still attack the king")
	}
	if _, err := m.Move(pos(0, 5), pos(0, 0)); !errors.Is(err, ErrKingCapture) {
		t.Fatalf("expected ErrKingCapture, got %v", err)
	}
	if king.Position() != pos(0, 0) || m.Board().PieceAt(pos(0, 0)) != king || rook.Position() != pos(0, 5) {
		t.Fatalf("refused capture changed the board")
	}
	for _, to := range m.LegalMoves(rook) {
		if to == pos(0, 0) {
			t.Fatalf("king square listed as a legal move")
		}
	}
	if n := len(m.LegalMoves(rook)); n != 13 {
		t.Fatalf("expected 13 rook moves, got %d", n)
	}
}

func TestLegalMovesForPiece(t *testing.T) {
	m := NewStandardMatch()

	knight := m.Board().PieceAt(pos(7, 1))
	got := m.LegalMoves(knight)
	want := []Position{pos(5, 0), pos(5, 2)}
	if len(got) != len(want) {
		t.Fatalf("knight moves: got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("knight moves: got %+v, want %+v", got, want)
		}
	}

	rook := m.Board().PieceAt(pos(7, 0))
	if moves := m.LegalMoves(rook); len(moves) != 0 {
		t.Fatalf("boxed-in rook has no moves, got %+v", moves)
	}
}

func TestFoolsMate(t *testing.T) {
	m := NewStandardMatch()
	moves := []SimpleMove{
		{From: pos(6, 5), To: pos(5, 5)}, // f3
		{From: pos(1, 4), To: pos(3, 4)}, // e5
		{From: pos(6, 6), To: pos(4, 6)}, // g4
		{From: pos(0, 3), To: pos(4, 7)}, // Qh4#
	}
	for i, mv := range moves {
		if m.IsGameOver() {
			t.Fatalf("game over before move %d", i)
		}
		if _, err := m.Move(mv.From, mv.To); err != nil {
			t.Fatalf("move %d %+v: %v", i, mv, err)
		}
		m.SwitchTurn()
	}

	if !m.IsKingInCheck(PlayerColorWhite) {
		t.Fatalf("white should be in check")
	}
	got := m.Outcome()
	if got.Result != ResultCheckmate || got.Winner != PlayerColorBlack {
		t.Fatalf("expected black to win by checkmate, got %+v", got)
	}
}
