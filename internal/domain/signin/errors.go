package signin

import "errors"

var (
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrProviderNotAllowed = errors.New("sign-in provider not allowed")
)

func IsErrBadRequest(err error) bool   { return errors.Is(err, ErrBadRequest) }
func IsErrUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsErrProviderNotAllowed(err error) bool {
	return errors.Is(err, ErrProviderNotAllowed)
}
