// Package ptr provides pointer construction helpers for optional fields.
package ptr

// To creates a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// String creates a pointer to the given string value.
func String(s string) *string {
	return &s
}

// Int creates a pointer to the given int value.
func Int(i int) *int {
	return &i
}

// Float64 creates a pointer to the given float64 value.
func Float64(f float64) *float64 {
	return &f
}
