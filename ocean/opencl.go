//go:build opencl

package ocean

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// butterflyKernelSource runs one stage for the whole grid. Each table entry
// is packed as float4(A, B, Re(w), Im(w)); direction flips the sign of the
// twiddle's imaginary part for the inverse transform.
const butterflyKernelSource = `__kernel void butterfly(
    const int n,
    const int stage,
    const int vertical,
    const float direction,
    __global const float4* table,
    __global const float2* src,
    __global float2* dst)
{
    int x = get_global_id(0);
    int y = get_global_id(1);
    if (x >= n || y >= n) {
        return;
    }
    int pos = vertical ? y : x;
    float4 e = table[stage * n + pos];
    int a = (int)e.x;
    int b = (int)e.y;
    float2 w = (float2)(e.z, direction * e.w);
    float2 p;
    float2 q;
    if (vertical) {
        p = src[a * n + x];
        q = src[b * n + x];
    } else {
        p = src[y * n + a];
        q = src[y * n + b];
    }
    dst[y * n + x] = p + (float2)(w.x * q.x - w.y * q.y, w.x * q.y + w.y * q.x);
}`

// openCLTransformer runs the butterfly stages on an OpenCL device using the
// same table as the CPU engine. Stages are enqueued on an in-order queue, so
// each one sees the complete output of the one before.
type openCLTransformer struct {
	n      int
	stages int

	context  *cl.Context
	queue    *cl.CommandQueue
	program  *cl.Program
	kernel   *cl.Kernel
	tableBuf *cl.MemObject
	pingBuf  *cl.MemObject
	pongBuf  *cl.MemObject

	host       []float32
	deviceName string
}

func newOpenCLTransformer(table *ButterflyTable) (transformer, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}
	t := &openCLTransformer{
		n:          table.N,
		stages:     table.Stages,
		host:       make([]float32, 2*table.N*table.N),
		deviceName: device.Name(),
	}

	if t.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if t.queue, err = t.context.CreateCommandQueue(device, 0); err != nil {
		t.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if t.program, err = t.context.CreateProgramWithSource([]string{butterflyKernelSource}); err != nil {
		t.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := t.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		t.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if t.kernel, err = t.program.CreateKernel("butterfly"); err != nil {
		t.Close()
		return nil, fmt.Errorf("creating butterfly kernel: %w", err)
	}

	packed := packTable(table)
	floatSize := int(unsafe.Sizeof(float32(0)))
	if t.tableBuf, err = t.context.CreateEmptyBuffer(cl.MemReadOnly, len(packed)*floatSize); err != nil {
		t.Close()
		return nil, fmt.Errorf("allocating butterfly table buffer: %w", err)
	}
	gridBytes := len(t.host) * floatSize
	if t.pingBuf, err = t.context.CreateEmptyBuffer(cl.MemReadWrite, gridBytes); err != nil {
		t.Close()
		return nil, fmt.Errorf("allocating ping buffer: %w", err)
	}
	if t.pongBuf, err = t.context.CreateEmptyBuffer(cl.MemReadWrite, gridBytes); err != nil {
		t.Close()
		return nil, fmt.Errorf("allocating pong buffer: %w", err)
	}
	if _, err := t.queue.EnqueueWriteBufferFloat32(t.tableBuf, true, 0, packed, nil); err != nil {
		t.Close()
		return nil, fmt.Errorf("uploading butterfly table: %w", err)
	}
	return t, nil
}

// pickDevice prefers a GPU and falls back to a CPU device.
func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %v: %w", msg, err, ErrBackendUnavailable)
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, fmt.Errorf("no OpenCL device found: %w", ErrBackendUnavailable)
}

// packTable flattens the table into float4 entries.
func packTable(table *ButterflyTable) []float32 {
	out := make([]float32, 4*len(table.Entries))
	for i, b := range table.Entries {
		out[4*i] = float32(b.A)
		out[4*i+1] = float32(b.B)
		out[4*i+2] = float32(real(b.Twiddle))
		out[4*i+3] = float32(imag(b.Twiddle))
	}
	return out
}

func (t *openCLTransformer) inverse(work []complex128) error {
	mustMatchSize("transform grid", len(work), t.n*t.n)
	if t.kernel == nil {
		return errors.New("OpenCL transformer is closed")
	}
	for i, v := range work {
		t.host[2*i] = float32(real(v))
		t.host[2*i+1] = float32(imag(v))
	}
	if _, err := t.queue.EnqueueWriteBufferFloat32(t.pingBuf, false, 0, t.host, nil); err != nil {
		return fmt.Errorf("uploading grid: %w", err)
	}

	src, dst := t.pingBuf, t.pongBuf
	global := []int{t.n, t.n}
	for _, vertical := range []int32{0, 1} {
		for s := 0; s < t.stages; s++ {
			if err := t.kernel.SetArgs(int32(t.n), int32(s), vertical, float32(-1), t.tableBuf, src, dst); err != nil {
				return fmt.Errorf("setting butterfly arguments: %w", err)
			}
			if _, err := t.queue.EnqueueNDRangeKernel(t.kernel, nil, global, nil, nil); err != nil {
				return fmt.Errorf("enqueueing stage %d: %w", s, err)
			}
			src, dst = dst, src
		}
	}

	if _, err := t.queue.EnqueueReadBufferFloat32(src, true, 0, t.host, nil); err != nil {
		return fmt.Errorf("reading grid: %w", err)
	}
	for i := range work {
		work[i] = complex(float64(t.host[2*i]), float64(t.host[2*i+1]))
	}
	return nil
}

func (t *openCLTransformer) Close() error {
	for _, buf := range []**cl.MemObject{&t.pongBuf, &t.pingBuf, &t.tableBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if t.kernel != nil {
		t.kernel.Release()
		t.kernel = nil
	}
	if t.program != nil {
		t.program.Release()
		t.program = nil
	}
	if t.queue != nil {
		t.queue.Release()
		t.queue = nil
	}
	if t.context != nil {
		t.context.Release()
		t.context = nil
	}
	return nil
}
