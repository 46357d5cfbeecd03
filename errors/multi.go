package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or only one non nil error is provided, this function returns it
// as it is. When two or more errors are given, the result is a multi error
// that reports the code of the first error.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten nested groups so that unpacking stays shallow.
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf(
		"%d errors occurred:\n\t%s\n",
		len(errs), strings.Join(points, "\n\t"))
}

// Unpack implements the unpacker interface.
func (errs multiErr) Unpack() []error {
	return errs
}

// ABCICode returns the code of the first error, consistent with the fail
// fast approach.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

// unpacker is implemented by errors that contain more than one error
// instance.
type unpacker interface {
	Unpack() []error
}
