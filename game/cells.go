package game

import "math/bits"

// CellSet is a set over the 81 cells of the full board, cell i of sub-board
// s at bit s*9+i. Bits 0..63 live in lo, 64..80 in hi.
type CellSet struct {
	lo uint64
	hi uint64
}

// allCells has every one of the 81 cell bits set.
var allCells = CellSet{lo: ^uint64(0), hi: 0x1ffff}

// subMask returns the 9 cells of one sub-board.
func subMask(sub uint8) CellSet {
	return shiftedSubBits(fullSubBoard, sub)
}

func shiftedSubBits(pattern uint16, sub uint8) CellSet {
	shift := uint(sub) * 9
	if shift < 64 {
		s := CellSet{lo: uint64(pattern) << shift}
		if shift > 64-9 {
			s.hi = uint64(pattern) >> (64 - shift)
		}
		return s
	}
	return CellSet{hi: uint64(pattern) << (shift - 64)}
}

// Has reports whether cell index i is in the set.
func (s CellSet) Has(i uint8) bool {
	if i < 64 {
		return s.lo&(1<<i) != 0
	}
	return s.hi&(1<<(i-64)) != 0
}

// Count returns the number of cells in the set.
func (s CellSet) Count() int {
	return bits.OnesCount64(s.lo) + bits.OnesCount64(s.hi)
}

// IsEmpty reports whether the set has no cells.
func (s CellSet) IsEmpty() bool {
	return s.lo == 0 && s.hi == 0
}

// Kth returns the cell index of the k-th set bit in ascending order,
// k in [0, Count()). Behavior is undefined for k out of range.
func (s CellSet) Kth(k int) uint8 {
	if n := bits.OnesCount64(s.lo); k >= n {
		return 64 + kthBit(s.hi, k-n)
	}
	return kthBit(s.lo, k)
}

func kthBit(word uint64, k int) uint8 {
	for ; k > 0; k-- {
		word &= word - 1
	}
	return uint8(bits.TrailingZeros64(word))
}

func (s CellSet) with(i uint8) CellSet {
	if i < 64 {
		s.lo |= 1 << i
	} else {
		s.hi |= 1 << (i - 64)
	}
	return s
}

func (s CellSet) or(t CellSet) CellSet {
	return CellSet{lo: s.lo | t.lo, hi: s.hi | t.hi}
}

func (s CellSet) and(t CellSet) CellSet {
	return CellSet{lo: s.lo & t.lo, hi: s.hi & t.hi}
}

// not complements the set within the 81-cell universe.
func (s CellSet) not() CellSet {
	return CellSet{lo: ^s.lo, hi: ^s.hi & allCells.hi}
}

// subBits extracts one sub-board's 9 cells as a 3x3 bit pattern.
func (s CellSet) subBits(sub uint8) uint16 {
	shift := uint(sub) * 9
	if shift < 64 {
		word := s.lo >> shift
		if shift > 64-9 {
			word |= s.hi << (64 - shift)
		}
		return uint16(word) & fullSubBoard
	}
	return uint16(s.hi>>(shift-64)) & fullSubBoard
}

// Disjoint reports whether the two sets share no cell.
func (s CellSet) Disjoint(t CellSet) bool {
	return s.lo&t.lo == 0 && s.hi&t.hi == 0
}
