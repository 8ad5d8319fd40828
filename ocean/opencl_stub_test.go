//go:build !opencl

package ocean

import (
	"errors"
	"testing"
)

func TestOpenCLBackendUnavailable(t *testing.T) {
	_, err := Initialize(testParams(64), WithLogger(quietLogger), WithBackend(BackendOpenCL))
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
}
