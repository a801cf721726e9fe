package sil

import "fmt"

// BasicBlock is a straight-line instruction sequence owned by exactly one
// Function. A well-formed block ends in exactly one terminator and the
// terminator is always the last instruction; the mutation helpers preserve
// that shape.
type BasicBlock struct {
	Label  string
	Instrs []Instruction

	fn *Function
}

func (b *BasicBlock) Parent() *Function { return b.fn }

// Terminated reports whether the block already ends in a terminator.
func (b *BasicBlock) Terminated() bool {
	if len(b.Instrs) == 0 {
		return false
	}
	_, ok := b.Instrs[len(b.Instrs)-1].(Terminator)
	return ok
}

// Terminator returns the block's terminator, or nil while the block is still
// under construction.
func (b *BasicBlock) Terminator() Terminator {
	if len(b.Instrs) == 0 {
		return nil
	}
	if t, ok := b.Instrs[len(b.Instrs)-1].(Terminator); ok {
		return t
	}
	return nil
}

// Append places in at the end of the block. Appending past a terminator is a
// structural bug in the caller, so it fails loudly rather than silently
// producing an unprintable block.
func (b *BasicBlock) Append(in Instruction) {
	if b.Terminated() {
		panic(fmt.Sprintf("sil: append to terminated block %q", b.Label))
	}
	in.setParent(b)
	b.Instrs = append(b.Instrs, in)
}

// Index returns the position of in within the block, or -1.
func (b *BasicBlock) Index(in Instruction) int {
	for i, existing := range b.Instrs {
		if existing == in {
			return i
		}
	}
	return -1
}

// InsertBefore places in immediately before mark, which must be in the block.
func (b *BasicBlock) InsertBefore(mark, in Instruction) error {
	idx := b.Index(mark)
	if idx < 0 {
		return fmt.Errorf("sil: instruction not in block %q", b.Label)
	}
	in.setParent(b)
	b.Instrs = append(b.Instrs, nil)
	copy(b.Instrs[idx+1:], b.Instrs[idx:])
	b.Instrs[idx] = in
	return nil
}

// Remove unlinks in from the block. Removing the terminator is refused: the
// caller must install a replacement terminator first, otherwise the block
// invariant is broken with no way to restore it here.
func (b *BasicBlock) Remove(in Instruction) error {
	if _, isTerm := in.(Terminator); isTerm {
		return fmt.Errorf("sil: cannot remove terminator from block %q", b.Label)
	}
	idx := b.Index(in)
	if idx < 0 {
		return fmt.Errorf("sil: instruction not in block %q", b.Label)
	}
	copy(b.Instrs[idx:], b.Instrs[idx+1:])
	b.Instrs[len(b.Instrs)-1] = nil
	b.Instrs = b.Instrs[:len(b.Instrs)-1]
	in.setParent(nil)
	return nil
}
