package helpers

func Ptr[T any](value T) *T {
	return &value
}

// FirstN returns at most n leading elements of slice.
func FirstN[T any](slice []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(slice) > n {
		return slice[:n]
	}
	return slice
}
