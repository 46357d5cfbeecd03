/*
Package errors implements the error categories used across pantheon.

Reuse the errors declared in this package whenever possible and declare a
package specific error only when none of them describes the failure. Custom
errors are declared with Register(code, description) during the program start
up. Each code can be registered only once.

Create an error instance with ErrXyz.New("...") or Wrap(err, "...") at the
point of failure to attach a stack trace. Only the inner most wrap records the
stack trace.

	%s is the error message
	%+v is the error message followed by the stack trace

Use ErrXyz.Is(err) to test the category of an error, regardless of how many
times it was wrapped.
*/
package errors
