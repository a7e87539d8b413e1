package permdomain

// SwapMove exchanges the jobs at positions I and J; it is its own inverse.
type SwapMove struct {
	I, J int
}

// Apply implements neigh.Move.
func (m SwapMove) Apply(s *Solution) {
	s.order[m.I], s.order[m.J] = s.order[m.J], s.order[m.I]
}

// Undo implements neigh.Move.
func (m SwapMove) Undo(s *Solution) {
	s.order[m.I], s.order[m.J] = s.order[m.J], s.order[m.I]
}

// InsertMove removes the job at position From and reinserts it at position
// To, shifting the intervening jobs. Its inverse is InsertMove{To, From}.
type InsertMove struct {
	From, To int
}

// Apply implements neigh.Move.
func (m InsertMove) Apply(s *Solution) {
	applyInsert(s.order, m.From, m.To)
}

// Undo implements neigh.Move.
func (m InsertMove) Undo(s *Solution) {
	applyInsert(s.order, m.To, m.From)
}

// applyInsert moves the element at position from to position to, shifting
// the elements between the two positions to fill the gap.
func applyInsert(p []int, from, to int) {
	if from == to {
		return
	}
	val := p[from]
	if from < to {
		copy(p[from:to], p[from+1:to+1])
		p[to] = val
		return
	}
	copy(p[to+1:from+1], p[to:from])
	p[to] = val
}
