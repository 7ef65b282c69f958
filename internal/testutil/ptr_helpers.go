package testutil

// Ptr returns a pointer to v, handy for optional filter fields
func Ptr[T any](v T) *T {
	return &v
}
