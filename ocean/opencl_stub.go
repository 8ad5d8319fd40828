//go:build !opencl

package ocean

import "fmt"

func newOpenCLTransformer(*ButterflyTable) (transformer, error) {
	return nil, fmt.Errorf("OpenCL support is not enabled; rebuild with -tags opencl: %w", ErrBackendUnavailable)
}
