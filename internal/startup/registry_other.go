//go:build !windows

package startup

func openRunKey() (ValueStore, error) {
	return nil, ErrUnsupported
}
