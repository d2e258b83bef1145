package repokit

// Binder produces a repo of type T that runs its statements on a given Queryer
// Services bind once to the pool and again to the Queryer handed to a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// RequireQueryer returns q and panics when it is nil; a repo bound to nothing is a wiring bug
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: bind to nil Queryer")
	}
	return q
}
