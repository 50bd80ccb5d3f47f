package session

// gate is a counting semaphore that never blocks: a worker either gets a
// slot or the trigger is refused.
type gate struct {
	ch chan struct{}
}

func newGate(capacity int) *gate {
	return &gate{
		ch: make(chan struct{}, capacity),
	}
}

// tryAcquire takes a slot if one is free
func (g *gate) tryAcquire() bool {
	select {
	case g.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// release returns a slot
func (g *gate) release() {
	<-g.ch
}

// busy reports whether every slot is taken
func (g *gate) busy() bool {
	return len(g.ch) == cap(g.ch)
}
