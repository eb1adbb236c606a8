package mongodata

import "github.com/pkg/errors"

var (
	ErrClosed                   = errors.New("data context closed")
	ErrConnectionStringNotFound = errors.New("connection string not found")
	ErrInvalidModelName         = errors.New("invalid model name")
	ErrNoID                     = errors.New(`no id, defined by tag bson:"_id" or db:"pk"`)
	ErrRecordNotFound           = errors.New("record not found")
)
