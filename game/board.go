package game

// Player is a side in the game: X or O. The zero value is X, which moves
// first.
type Player uint8

const (
	X Player = iota
	O
)

// Other returns the opposing side.
func (p Player) Other() Player {
	if p == X {
		return O
	}
	return X
}

func (p Player) String() string {
	if p == X {
		return "X"
	}
	return "O"
}

// GameState is the outcome of a position: still in progress, drawn, or won
// by one of the two sides.
type GameState uint8

const (
	InProgress GameState = iota
	Draw
	XWon
	OWon
)

// WonBy returns the winning outcome for the given player.
func WonBy(p Player) GameState {
	if p == X {
		return XWon
	}
	return OWon
}

// Winner reports the winning player, if any.
func (g GameState) Winner() (Player, bool) {
	switch g {
	case XWon:
		return X, true
	case OWon:
		return O, true
	default:
		return X, false
	}
}

func (g GameState) String() string {
	switch g {
	case InProgress:
		return "in progress"
	case Draw:
		return "draw"
	case XWon:
		return "X won"
	default:
		return "O won"
	}
}

// Move is a cell on the 9x9 board, packed as (sub-board index << 4) | cell
// index. Both indices are 0..8, row-major.
type Move uint8

// NoMove marks a board with no previous ply (the initial position).
const NoMove Move = 0xff

// MoveFromGL packs a (sub-board, cell) pair into a Move.
func MoveFromGL(sub, cell uint8) Move {
	return Move(sub<<4 | cell)
}

// MoveFromIndex converts a flat 0..80 cell index into a Move.
func MoveFromIndex(index uint8) Move {
	return MoveFromGL(index/9, index%9)
}

// Sub returns the sub-board index, 0..8.
func (m Move) Sub() uint8 {
	return uint8(m>>4) & 0xf
}

// Cell returns the cell index within the sub-board, 0..8.
func (m Move) Cell() uint8 {
	return uint8(m) & 0xf
}

// Index returns the flat 0..80 cell index.
func (m Move) Index() uint8 {
	return m.Sub()*9 + m.Cell()
}

func (m Move) String() string {
	if m == NoMove {
		return "-"
	}
	return string([]byte{'0' + m.Sub(), ',', '0' + m.Cell()})
}

// The 8 three-in-a-row patterns over a 3x3 board: 3 rows, 3 columns,
// 2 diagonals.
var winMasks = [8]uint16{
	0b111_000_000,
	0b000_111_000,
	0b000_000_111,
	0b100_100_100,
	0b010_010_010,
	0b001_001_001,
	0b100_010_001,
	0b001_010_100,
}

const fullSubBoard = 0b111_111_111

func hasLine(pattern uint16) bool {
	for _, mask := range winMasks {
		if pattern&mask == mask {
			return true
		}
	}
	return false
}

// Board is the complete game state, packed into a few machine words.
// X and O hold each side's cells across all 81 cells; GX and GO mark
// sub-boards decided for each side, with a bit set in both marking a drawn
// sub-board. Boards are immutable values: every transition returns a new
// Board.
type Board struct {
	X          CellSet
	O          CellSet
	GX         uint16
	GO         uint16
	NextPlayer Player
	LastMove   Move
}

// NewBoard returns the initial position: empty, X to move.
func NewBoard() Board {
	return Board{LastMove: NoMove}
}

// subState evaluates one sub-board's 9-bit contents.
func (b Board) subState(sub uint8) GameState {
	xbits := b.X.subBits(sub)
	obits := b.O.subBits(sub)

	if hasLine(xbits) {
		return XWon
	}
	if hasLine(obits) {
		return OWon
	}
	if xbits|obits == fullSubBoard {
		return Draw
	}
	return InProgress
}

// CheckGameState evaluates the global board. A drawn sub-board counts for
// neither side's line.
func (b Board) CheckGameState() GameState {
	drawn := b.GX & b.GO
	if hasLine(b.GX &^ drawn) {
		return XWon
	}
	if hasLine(b.GO &^ drawn) {
		return OWon
	}
	if b.GX|b.GO == fullSubBoard {
		return Draw
	}
	return InProgress
}

// GameOver reports whether the game has been decided.
func (b Board) GameOver() bool {
	return b.CheckGameState() != InProgress
}

// UncheckedPlay applies a move for the side to move and returns the
// resulting position. It performs no legality or turn validation: this is
// the simulation hot path, and callers are expected to pick moves from
// Moves().
func (b Board) UncheckedPlay(m Move) Board {
	next := b

	sub := m.Sub()
	switch b.NextPlayer {
	case X:
		next.X = b.X.with(m.Index())
	case O:
		next.O = b.O.with(m.Index())
	}

	// Only the sub-board just played in can change state.
	switch next.subState(sub) {
	case XWon:
		next.GX |= 1 << sub
	case OWon:
		next.GO |= 1 << sub
	case Draw:
		next.GX |= 1 << sub
		next.GO |= 1 << sub
	}

	next.LastMove = m
	next.NextPlayer = b.NextPlayer.Other()
	return next
}

// GlobalBoardMask returns the cells of every decided sub-board.
func (b Board) GlobalBoardMask() CellSet {
	var mask CellSet
	decided := b.GX | b.GO
	for sub := uint8(0); sub < 9; sub++ {
		if decided&(1<<sub) != 0 {
			mask = mask.or(subMask(sub))
		}
	}
	return mask
}

// Moves returns the set of legal cells for the side to move. The previous
// move's cell index names the target sub-board; if that sub-board is
// already decided, any empty cell of any undecided sub-board is legal.
func (b Board) Moves() CellSet {
	if b.LastMove == NoMove {
		return allCells
	}

	target := b.LastMove.Cell()
	occupied := b.X.or(b.O)
	switch b.subState(target) {
	case InProgress:
		return occupied.not().and(subMask(target))
	default:
		return occupied.or(b.GlobalBoardMask()).not()
	}
}
