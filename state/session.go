package state

// SessionState is where the controller stands with respect to sign-in.
// It starts at Checking and settles on Authenticated or Anonymous; signing
// out moves Authenticated back to Anonymous.
type SessionState int

const (
	Checking SessionState = iota
	Authenticated
	Anonymous
)

func (s SessionState) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

type Level int

const (
	Info Level = iota
	Error
)

// Notice is a one-line message meant for the user.
type Notice struct {
	Level Level
	Text  string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}
