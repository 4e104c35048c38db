package elevation

import (
	"os"
	"runtime"
	"testing"
)

func TestIsElevated(t *testing.T) {
	elevated, err := IsElevated()
	if err != nil {
		t.Fatalf("IsElevated error: %v", err)
	}
	if runtime.GOOS != "windows" && elevated != (os.Geteuid() == 0) {
		t.Fatalf("expected elevated=%v for euid %d", os.Geteuid() == 0, os.Geteuid())
	}
}
