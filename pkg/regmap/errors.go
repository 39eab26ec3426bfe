package regmap

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package and by the document
// layer wraps exactly one of these; match with errors.Is.
var (
	ErrMissingField     = errors.New("missing field")
	ErrType             = errors.New("wrong type")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrDuplicateAddress = errors.New("duplicate address")
	ErrOverlap          = errors.New("bit field overlap")
	ErrRange            = errors.New("value out of range")
	ErrUnknownField     = errors.New("unknown field")
)

// Error reports a structural problem together with where it was found.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error

	// Register is the name of the register being built, if any.
	Register string

	// BitField is the name of the bit field being built, if any.
	BitField string

	// Key is the offending record key, if any.
	Key string

	// Detail is a human-readable explanation.
	Detail string
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Register != "" {
		fmt.Fprintf(&sb, "register %q: ", e.Register)
	}
	if e.BitField != "" {
		fmt.Fprintf(&sb, "bit field %q: ", e.BitField)
	}
	sb.WriteString(e.Kind.Error())
	if e.Key != "" {
		fmt.Fprintf(&sb, " %q", e.Key)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// inRegister fills in the register name on errors raised below the
// register level.
func inRegister(err error, name string) error {
	var e *Error
	if errors.As(err, &e) && e.Register == "" {
		e.Register = name
	}
	return err
}
