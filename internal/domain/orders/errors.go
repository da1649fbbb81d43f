package orders

import "errors"

var (
	ErrUnauthorized   = errors.New("login required")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrDocNotFound    = errors.New("orders document not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrExportDisabled = errors.New("export is not configured")
)

// Messages published in View.Error.
const (
	MsgFetchFailed     = "failed to fetch order data"
	MsgSubscribeFailed = "failed to set up order subscription"
)

func IsErrUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsErrForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }
func IsErrBadRequest(err error) bool   { return errors.Is(err, ErrBadRequest) }
func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrDocNotFound) || errors.Is(err, ErrOrderNotFound)
}
