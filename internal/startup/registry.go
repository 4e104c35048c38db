package startup

import (
	"context"
	"errors"
	"io/fs"
)

// runKeyPath is relative to HKEY_CURRENT_USER.
const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// ValueStore is the subset of a registry key the registrar uses.
// golang.org/x/sys/windows/registry.Key satisfies it.
type ValueStore interface {
	SetStringValue(name, value string) error
	GetStringValue(name string) (string, uint32, error)
	DeleteValue(name string) error
	Close() error
}

// RegistryRegistrar keeps the entry as a value under the current user's Run key.
type RegistryRegistrar struct {
	Open func() (ValueStore, error)
}

// NewRegistryRegistrar returns a RegistryRegistrar bound to the real Run key.
func NewRegistryRegistrar() RegistryRegistrar {
	return RegistryRegistrar{Open: openRunKey}
}

// Register writes the quoted executable path, replacing any existing value.
func (r RegistryRegistrar) Register(_ context.Context, entry Entry) error {
	return r.with("register", entry.Name, func(key ValueStore) error {
		return key.SetStringValue(entry.Name, `"`+entry.Path+`"`)
	})
}

// Deregister removes the value. A missing value is not an error.
func (r RegistryRegistrar) Deregister(_ context.Context, name string) error {
	return r.with("deregister", name, func(key ValueStore) error {
		err := key.DeleteValue(name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	})
}

// Registered reports whether the value exists.
func (r RegistryRegistrar) Registered(_ context.Context, name string) (bool, error) {
	present := false
	err := r.with("query", name, func(key ValueStore) error {
		_, _, err := key.GetStringValue(name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		present = true
		return nil
	})
	return present, err
}

func (r RegistryRegistrar) with(op string, name string, fn func(ValueStore) error) error {
	open := r.Open
	if open == nil {
		open = openRunKey
	}
	key, err := open()
	if err != nil {
		return &Error{Op: op, Name: name, Err: err}
	}
	defer func() {
		_ = key.Close()
	}()
	if err := fn(key); err != nil {
		return &Error{Op: op, Name: name, Err: err}
	}
	return nil
}
