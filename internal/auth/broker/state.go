package broker

// State is the position of one login attempt in the OAuth flow.
type State int

const (
	NoSession State = iota
	PendingAuthorization
	CodeReceived
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case PendingAuthorization:
		return "pending_authorization"
	case CodeReceived:
		return "code_received"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events are accepted.
func (s State) Terminal() bool {
	return s == Authenticated || s == Failed
}

// Event is an input to the state machine.
type Event int

const (
	SessionFound Event = iota
	SessionMissing
	CodeArrived
	CodeMissing
	TokenExchanged
	UserFetched
	UpstreamFailed
)

func (e Event) String() string {
	switch e {
	case SessionFound:
		return "session_found"
	case SessionMissing:
		return "session_missing"
	case CodeArrived:
		return "code_arrived"
	case CodeMissing:
		return "code_missing"
	case TokenExchanged:
		return "token_exchanged"
	case UserFetched:
		return "user_fetched"
	case UpstreamFailed:
		return "upstream_failed"
	default:
		return "unknown"
	}
}

// Next is the transition function. Any event that is not valid for the
// current state fails the attempt; terminal states absorb every event.
//
// Token exchange and user fetch both happen while in CodeReceived: a
// TokenExchanged event keeps the attempt there until UserFetched.
func Next(s State, e Event) State {
	if s.Terminal() {
		return s
	}

	switch s {
	case NoSession:
		if e == SessionFound {
			return PendingAuthorization
		}
	case PendingAuthorization:
		if e == CodeArrived {
			return CodeReceived
		}
	case CodeReceived:
		switch e {
		case TokenExchanged:
			return CodeReceived
		case UserFetched:
			return Authenticated
		}
	}

	return Failed
}
