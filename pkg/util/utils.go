package util

// Ptr returns a pointer to a copy of the given value, handy for the optional
// quota figures of a check response.
func Ptr[T any](v T) *T {
	return &v
}
