package checkout

// Status is the state of the checkout screen.
type Status string

const (
	StatusLoading       Status = "loading"
	StatusLoginRequired Status = "login_required"
	StatusEmpty         Status = "empty"
	StatusReady         Status = "ready"
	StatusSubmitting    Status = "submitting"
	StatusRedirected    Status = "redirected"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
)

// IsTerminal reports whether the workflow has handed off to another view.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusLoginRequired, StatusRedirected, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
