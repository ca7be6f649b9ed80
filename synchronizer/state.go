package synchronizer

// State is the detail-page lifecycle. Loading covers the initial fetch and
// every passcode retry; PasscodeRequired renders a prompt instead of
// content; Ready polls forever; Failed is the degraded terminal state when
// the initial fetch fails outright with anything but an auth denial.
type State int

const (
	StateLoading State = iota
	StatePasscodeRequired
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePasscodeRequired:
		return "passcode_required"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
