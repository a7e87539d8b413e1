package subset

// SwapMove removes Del from the selection and inserts Add; Undo reverses
// the operation. The zero value is not a valid move; use NewSwapMove.
// SwapMove is comparable so it can serve as an evaluated-move cache key.
type SwapMove struct {
	Add int
	Del int
}

// NewSwapMove constructs a swap move that adds add and deletes del.
func NewSwapMove(add, del int) SwapMove {
	return SwapMove{Add: add, Del: del}
}

// Apply implements neigh.Move.
func (m SwapMove) Apply(s *Solution) {
	s.deselectID(m.Del)
	s.selectID(m.Add)
}

// Undo implements neigh.Move.
func (m SwapMove) Undo(s *Solution) {
	s.deselectID(m.Add)
	s.selectID(m.Del)
}
