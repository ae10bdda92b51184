package hand

import "sync/atomic"

// Board publishes the latest hand state from the detection loop to the simulation tick.
// The writer fills a private Pair and swaps it in whole, so a reader never observes one
// hand's fields from two different frames.
type Board struct {
	cur atomic.Pointer[Pair]
	seq atomic.Uint64
}

// Publish makes p the latest state.
func (b *Board) Publish(p Pair) {
	cp := p
	b.cur.Store(&cp)
	b.seq.Add(1)
}

// Latest returns the most recently published state, or both hands absent.
func (b *Board) Latest() Pair {
	if p := b.cur.Load(); p != nil {
		return *p
	}
	return Pair{}
}

// Seq counts publications; readers can use it to tell whether anything changed.
func (b *Board) Seq() uint64 {
	return b.seq.Load()
}

// Clear publishes both hands absent.
func (b *Board) Clear() {
	b.Publish(Pair{})
}
