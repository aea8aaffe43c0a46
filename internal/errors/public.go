package errors

// Public wraps the original error with a message that is safe to show to
// end users. Handlers unwrap it with errors.As and fall back to a generic
// message for anything else.
func Public(err error, msg string) error {
	return &publicError{
		msg: msg,
		err: err,
	}
}

type publicError struct {
	msg string
	err error
}

func (pe publicError) Public() string {
	return pe.msg
}

func (pe publicError) Error() string {
	return pe.err.Error()
}

func (pe publicError) Unwrap() error {
	return pe.err
}
