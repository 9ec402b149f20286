package session

// Phase is the lifecycle state of a Manager.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticating
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Reasons attached to a Transition.
const (
	ReasonNoCredential   = "no_credential"
	ReasonResumed        = "resumed"
	ReasonResumeFailed   = "resume_failed"
	ReasonAuthenticating = "authenticating"
	ReasonCancelled      = "cancelled"
	ReasonLogin          = "login"
	ReasonLogout         = "logout"
	ReasonExpired        = "expired"
)

// Transition describes one phase change.
type Transition struct {
	From   Phase
	To     Phase
	Reason string
}
