package xerrors

// Unwrap splits an error built with errors.Join (or any error exposing
// Unwrap() []error) into its parts. A nil error yields no parts.
func Unwrap(err error) []error {
	if err == nil {
		return nil
	}
	u, ok := err.(interface {
		Unwrap() []error
	})
	if !ok {
		return []error{err}
	}
	return u.Unwrap()
}
