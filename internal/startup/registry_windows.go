//go:build windows

package startup

import "golang.org/x/sys/windows/registry"

func openRunKey() (ValueStore, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return nil, err
	}
	return key, nil
}
