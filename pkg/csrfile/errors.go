package csrfile

import (
	"errors"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

var (
	// ErrParse reports a document that is not valid in its format's grammar.
	ErrParse = errors.New("parse error")

	// ErrIO reports a file that could not be read or written.
	ErrIO = errors.New("i/o error")

	// ErrFormat reports an unknown or unsupported document format.
	ErrFormat = errors.New("unknown format")
)

// errorKinds is searched in order by ErrorKind.
var errorKinds = []error{
	ErrIO,
	ErrParse,
	ErrFormat,
	regmap.ErrMissingField,
	regmap.ErrType,
	regmap.ErrDuplicateName,
	regmap.ErrDuplicateAddress,
	regmap.ErrOverlap,
	regmap.ErrRange,
	regmap.ErrUnknownField,
}

// ErrorKind returns the short name of the error class of err, such as
// "parse error" or "duplicate address", or "" if err is of no known class.
func ErrorKind(err error) string {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ""
}
