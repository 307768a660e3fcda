package model

// reachable applies the movement shape of p's kind. Bounds and ally
// occupancy are checked by the caller.
func reachable(b *Board, p *Piece, to Position) bool {
	switch p.kind {
	case Pawn:
		return pawnReach(b, p, to)
	case Knight:
		return knightReach(p.pos, to)
	case Bishop:
		return diagonalClear(b, p.pos, to)
	case Rook:
		return straightClear(b, p.pos, to)
	case Queen:
		return straightClear(b, p.pos, to) || diagonalClear(b, p.pos, to)
	case King:
		return kingReach(p.pos, to)
	default:
		return false
	}
}

// pawnForward is the step along X a pawn of color c advances by.
func pawnForward(c PlayerColor) int {
	if c == PlayerColorBlack {
		return 1
	}
	return -1
}

func pawnReach(b *Board, p *Piece, to Position) bool {
	dir := pawnForward(p.color)
	dx := to.X - p.pos.X
	dy := abs(to.Y - p.pos.Y)
	target := b.PieceAt(to)

	switch {
	case dx == dir && dy == 0:
		return target == nil
	case dx == dir && dy == 1:
		return target != nil
	case dx == 2*dir && dy == 0 && !p.hasMoved:
		// the square passed over is not inspected
		return target == nil
	}
	return false
}

func knightReach(from, to Position) bool {
	dx, dy := abs(to.X-from.X), abs(to.Y-from.Y)
	return (dx == 2 && dy == 1) || (dx == 1 && dy == 2)
}

func kingReach(from, to Position) bool {
	dx, dy := abs(to.X-from.X), abs(to.Y-from.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// straightClear reports whether from and to share exactly one axis and every
// square strictly between them is empty.
func straightClear(b *Board, from, to Position) bool {
	if (from.X == to.X) == (from.Y == to.Y) {
		return false
	}
	return pathClear(b, from, to)
}

// diagonalClear reports whether from and to lie on a common diagonal and
// every square strictly between them is empty.
func diagonalClear(b *Board, from, to Position) bool {
	dx, dy := abs(to.X-from.X), abs(to.Y-from.Y)
	if dx == 0 || dx != dy {
		return false
	}
	return pathClear(b, from, to)
}

// pathClear walks the open interval between from and to one unit step at a
// time and fails on the first occupied square. Callers guarantee the two
// positions are on a straight or diagonal line.
func pathClear(b *Board, from, to Position) bool {
	stepX, stepY := sign(to.X-from.X), sign(to.Y-from.Y)
	cur := Position{X: from.X + stepX, Y: from.Y + stepY}
	for cur != to {
		if b.PieceAt(cur) != nil {
			return false
		}
		cur = Position{X: cur.X + stepX, Y: cur.Y + stepY}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
