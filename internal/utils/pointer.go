package utils

// Ptr returns a pointer to the given value. Useful for building request
// payloads with optional fields.
func Ptr[T any](v T) *T {
	return &v
}
