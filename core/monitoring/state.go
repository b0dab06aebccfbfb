package monitoring

// State is the lifecycle state of a reporting client.
type State int

const (
	// StateUninitialized means no client is bound; every capture is a no-op.
	StateUninitialized State = iota
	// StateActive means a client is bound and captures are forwarded.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	default:
		return "uninitialized"
	}
}
