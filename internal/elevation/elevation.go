// Package elevation reports whether the process runs with administrative rights.
package elevation

// IsElevated reports whether the current process token is elevated.
// Enabling optional features requires it.
func IsElevated() (bool, error) {
	return isElevated()
}
