package responder

import (
	"fmt"

	"github.com/dogmatiq/dodeca/logging"
)

// Option is a function that applies an option to a responder created by New().
type Option func(*Responder) error

// UseLogger returns a responder option that sets the logger used by the
// responder.
func UseLogger(l logging.Logger) Option {
	return func(r *Responder) error {
		r.logger = l
		return nil
	}
}

// UseAnswerer returns a responder option that adds an answerer that is
// consulted after the answerers for the service instance.
func UseAnswerer(a Answerer) Option {
	return func(r *Responder) error {
		r.answerers = append(r.answerers, a)
		return nil
	}
}

// MaxSockets returns a responder option that limits the number of sockets
// that the responder listens on.
func MaxSockets(n int) Option {
	return func(r *Responder) error {
		if n < 1 {
			return fmt.Errorf("socket limit must be positive, got %d", n)
		}

		r.maxSockets = n
		return nil
	}
}

// AnswerSRVQuestions is a responder option that enables answers to SRV
// questions for the service instance name.
func AnswerSRVQuestions(r *Responder) error {
	r.answerSRV = true
	return nil
}
