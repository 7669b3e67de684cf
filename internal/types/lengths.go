package types

// SqLength is the number of squares on a board, used to size per-square
// lookup tables.
const SqLength Square = 64

// GamePhaseMax is the tapered-eval phase value of the starting position
// (2 knights + 2 bishops + 2 rooks + 1 queen per side, weighted by
// PieceType.GamePhaseValue).
const GamePhaseMax = 24

// Key is a zobrist hash key identifying a chess position. It needs the
// full 64 bits for distribution.
type Key uint64
