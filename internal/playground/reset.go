package playground

import (
	"github.com/inkpad/playground/internal/observability"
)

// sessionHost owns the session that a ResetController replaces.
type sessionHost interface {
	// unmountSession detaches the capture and closes the execution session.
	unmountSession()

	// restoreOriginal sets the source code back to the original code.
	restoreOriginal()

	// mountSession creates a session from the current source code and
	// attaches a fresh capture to it.
	mountSession() error
}

// ResetController restores a playground to its original code.
//
// The session is recreated in place: the layout ratio and the selected
// tab are not touched.
type ResetController struct {
	host    sessionHost
	logger  *observability.CoreLogger
	metrics *Metrics
}

func newResetController(
	host sessionHost,
	logger *observability.CoreLogger,
	metrics *Metrics,
) *ResetController {
	return &ResetController{host: host, logger: logger, metrics: metrics}
}

// Reset discards the current session and console buffer and starts a new
// session from the original code.
//
// If the new session cannot be created the host is left without a session
// and the error is returned.
func (r *ResetController) Reset() error {
	r.host.unmountSession()
	r.host.restoreOriginal()

	err := r.host.mountSession()
	r.metrics.reset(err)
	if err != nil {
		r.logger.CaptureError(err)
		return err
	}

	r.logger.Debug("reset: new session mounted")
	return nil
}
