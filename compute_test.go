package vulqueno

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elements = 65536

func runMultiply(t *testing.T, rt *Runtime) []uint32 {
	t.Helper()
	data, err := NewStorageBufferFrom(rt, Iota(elements))
	require.NoError(t, err)
	defer data.Destroy()

	f, err := ExecuteCompute(multiplyShader, data, rt)
	require.NoError(t, err)
	require.NoError(t, f.Wait(10*time.Second))
	assert.Equal(t, Completed, f.State())
	assert.Equal(t, uint64(elements), f.Footprint())

	return append([]uint32(nil), data.Uint32s()...)
}

func TestDispatchState(t *testing.T) {
	assert.Equal(t, "submitted", Submitted.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", DispatchState(42).String())

	opts := DefaultDispatchOptions()
	assert.Equal(t, "main", opts.EntryPoint)
	assert.Equal(t, [3]uint32{1024, 1, 1}, opts.Groups)
	assert.Zero(t, opts.Set)
	assert.Zero(t, opts.Binding)
}

func TestFenceFutureCompleteWithWaiter(t *testing.T) {
	rt := &Runtime{refs: 2}
	n := 0
	f := &FenceFuture{
		rt:         rt,
		state:      Submitted,
		waiters:    1,
		transients: []IDestructable{destroyCounter{&n}, destroyCounter{&n}},
	}

	// a blocked Wait still holds the fence
	f.complete(Completed)
	assert.Equal(t, Completed, f.State())
	assert.True(t, f.Done())
	assert.Zero(t, n)
	assert.Equal(t, 2, rt.Refs())

	f.waiters--
	f.cleanup()
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, rt.Refs())

	f.complete(Failed)
	assert.Equal(t, Completed, f.State())
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, rt.Refs())
	assert.NoError(t, f.Wait(0))
}

func TestExecuteCompute(t *testing.T) {
	rt := requireRuntime(t)

	out := runMultiply(t, rt)
	require.Len(t, out, elements)
	for i, v := range out {
		if !assert.Equal(t, uint32(i)*12, v, "element %d", i) {
			break
		}
	}
	assert.Equal(t, 1, rt.Refs())
}

func TestExecuteComputeTwoRuntimes(t *testing.T) {
	a := requireRuntime(t)
	b := requireRuntime(t)

	assert.Equal(t, runMultiply(t, a), runMultiply(t, b))
}

func TestExecuteComputeMissingShader(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBuffer(rt, 1024)
	require.NoError(t, err)
	defer data.Destroy()

	_, err = ExecuteCompute(filepath.Join(t.TempDir(), "nonexistent.spv"), data, rt)
	assert.ErrorIs(t, err, FileOpenFailed)
	assert.Equal(t, 1, rt.Refs())

	// the runtime is still usable
	out := runMultiply(t, rt)
	assert.Equal(t, uint32(120), out[10])
}

func TestExecuteComputeSubmitted(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBufferFrom(rt, Iota(elements))
	require.NoError(t, err)
	defer data.Destroy()

	f, err := ExecuteCompute(multiplyShader, data, rt)
	require.NoError(t, err)

	state := f.State()
	assert.Contains(t, []DispatchState{Submitted, Completed}, state)
	assert.Same(t, data, f.Buffer())
	assert.Equal(t, 2, rt.Refs())

	require.NoError(t, f.Wait(-1))
	require.NoError(t, f.Wait(0))
	assert.True(t, f.Done())
	assert.Equal(t, 1, rt.Refs())
}

func TestExecuteComputeDoneDuringWait(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBufferFrom(rt, Iota(elements))
	require.NoError(t, err)
	defer data.Destroy()

	f, err := ExecuteCompute(multiplyShader, data, rt)
	require.NoError(t, err)

	waited := make(chan error, 1)
	go func() { waited <- f.Wait(-1) }()

	polled := make(chan bool, 1)
	go func() { polled <- f.Done() }()

	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("Done blocked")
	}

	require.NoError(t, <-waited)
	assert.True(t, f.Done())
	assert.Equal(t, uint32(12*7), data.Uint32s()[7])
	assert.Equal(t, 1, rt.Refs())
}

func TestExecuteComputePartialFootprint(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBufferFrom(rt, Iota(256))
	require.NoError(t, err)
	defer data.Destroy()

	opts := DefaultDispatchOptions()
	opts.Groups = [3]uint32{1, 1, 1}
	f, err := ExecuteComputeWithOptions(multiplyShader, data, rt, opts)
	require.NoError(t, err)
	require.NoError(t, f.Wait(10*time.Second))
	assert.Equal(t, uint64(64), f.Footprint())

	out := data.Uint32s()
	assert.Equal(t, uint32(63*12), out[63])
	assert.Equal(t, uint32(64), out[64])
	assert.Equal(t, uint32(255), out[255])
}

// A buffer shorter than the footprint is accepted. The invocations past the
// end of the buffer access memory outside the binding; what they do is
// undefined and nothing here checks for it. Only the reported footprint and
// the successful dispatch are asserted.
func TestExecuteComputeShortBuffer(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBufferFrom(rt, Iota(256))
	require.NoError(t, err)
	defer data.Destroy()

	f, err := ExecuteCompute(multiplyShader, data, rt)
	require.NoError(t, err)
	require.NoError(t, f.Wait(10*time.Second))

	assert.Equal(t, uint64(1024*64), f.Footprint())
	assert.Greater(t, f.Footprint(), uint64(len(data.Uint32s())))
	assert.Equal(t, Completed, f.State())
}

func TestExecuteComputeWaitContext(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBufferFrom(rt, Iota(elements))
	require.NoError(t, err)
	defer data.Destroy()

	f, err := ExecuteCompute(multiplyShader, data, rt)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, f.WaitContext(ctx))
	assert.Equal(t, Completed, f.State())
	assert.Equal(t, uint32(1200), data.Uint32s()[100])
}

func TestDispatchModule(t *testing.T) {
	rt := requireRuntime(t)

	shader, err := LoadShaderModule(rt, multiplyShader)
	require.NoError(t, err)
	defer shader.Destroy()

	data, err := NewStorageBufferFrom(rt, Iota(elements))
	require.NoError(t, err)
	defer data.Destroy()

	for i := 0; i < 2; i++ {
		f, err := DispatchModule(rt, shader, data, DefaultDispatchOptions())
		require.NoError(t, err)
		require.NoError(t, f.Wait(10*time.Second))
	}
	assert.Equal(t, uint32(7*144), data.Uint32s()[7])
	assert.NotNil(t, shader.VKShaderModule)
}

func TestDispatchErrors(t *testing.T) {
	rt := requireRuntime(t)

	data, err := NewStorageBuffer(rt, 1024)
	require.NoError(t, err)
	defer data.Destroy()

	_, err = DispatchModule(rt, nil, data, DefaultDispatchOptions())
	assertStage(t, err, StagePipeline)

	opts := DefaultDispatchOptions()
	opts.EntryPoint = "not_main"
	_, err = ExecuteComputeWithOptions(multiplyShader, data, rt, opts)
	assertStage(t, err, StagePipeline)

	_, err = ExecuteCompute(multiplyShader, nil, rt)
	assertStage(t, err, StageDescriptor)

	other := requireRuntime(t)
	shader, err := LoadShaderModule(other, multiplyShader)
	require.NoError(t, err)
	defer shader.Destroy()

	_, err = DispatchModule(rt, shader, data, DefaultDispatchOptions())
	assertStage(t, err, StagePipeline)

	assert.Equal(t, 1, rt.Refs())
}

func assertStage(t *testing.T, err error, stage Stage) {
	t.Helper()
	require.ErrorIs(t, err, DispatchFailed)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, stage, e.Stage)
}
