package mongo

import "errors"

var (
	ErrConnectionFailed  = errors.New("mongo: failed to connect")
	ErrHealthcheckFailed = errors.New("mongo: healthcheck failed")
)
