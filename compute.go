package vulqueno

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/GRAYgoose124/vulqueno/internal/logging"
)

// DispatchState tracks a dispatch from construction to completion.
type DispatchState int

const (
	Created DispatchState = iota
	Recording
	Recorded
	Submitted
	Completed
	Failed
)

func (s DispatchState) String() string {
	switch s {
	case Created:
		return "created"
	case Recording:
		return "recording"
	case Recorded:
		return "recorded"
	case Submitted:
		return "submitted"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// DispatchOptions parameterizes a dispatch.
type DispatchOptions struct {
	EntryPoint string
	Set        uint32
	Binding    uint32
	Groups     [3]uint32
}

// DefaultDispatchOptions binds the buffer at set 0, binding 0 and dispatches
// 1024x1x1 workgroups of "main".
func DefaultDispatchOptions() DispatchOptions {
	return DispatchOptions{
		EntryPoint: "main",
		Groups:     [3]uint32{1024, 1, 1},
	}
}

// ExecuteCompute loads the SPIR-V at shaderPath and dispatches it with
// DefaultDispatchOptions against data. It returns once the work is
// submitted; the returned future must be waited on before data is read.
func ExecuteCompute(shaderPath string, data *StorageBuffer, rt *Runtime) (*FenceFuture, error) {
	return ExecuteComputeWithOptions(shaderPath, data, rt, DefaultDispatchOptions())
}

func ExecuteComputeWithOptions(shaderPath string, data *StorageBuffer, rt *Runtime, opts DispatchOptions) (*FenceFuture, error) {
	shader, err := LoadShaderModule(rt, shaderPath)
	if err != nil {
		return nil, err
	}
	return dispatch(rt, shader, true, data, opts)
}

// DispatchModule dispatches an already loaded shader module. The module is
// not owned by the future and must outlive it.
func DispatchModule(rt *Runtime, shader *ShaderModule, data *StorageBuffer, opts DispatchOptions) (*FenceFuture, error) {
	if shader == nil {
		return nil, stageError(StagePipeline, errors.New("no shader module"))
	}
	return dispatch(rt, shader, false, data, opts)
}

func dispatch(rt *Runtime, shader *ShaderModule, ownShader bool, data *StorageBuffer, opts DispatchOptions) (*FenceFuture, error) {
	f := &FenceFuture{
		rt:    rt,
		data:  data,
		state: Created,
	}
	if ownShader {
		f.transients = append(f.transients, shader)
	}

	fail := func(stage Stage, err error) (*FenceFuture, error) {
		f.state = Failed
		f.release()
		logging.WithFields(map[string]interface{}{
			"stage": stage.String(),
			"path":  shader.Path,
		}).Debugf("dispatch failed: %v", err)
		return nil, stageError(stage, err)
	}

	d := rt.Device()

	if shader.Device != d {
		return fail(StagePipeline, errors.New("shader module was created on a different device"))
	}
	if opts.EntryPoint == "" {
		opts.EntryPoint = "main"
	}

	if m, err := shader.Reflect(); err == nil {
		entry, ok := m.EntryPoint(opts.EntryPoint)
		if !ok {
			return fail(StagePipeline, errors.Errorf("entry point %q not found", opts.EntryPoint))
		}
		f.footprint = uint64(opts.Groups[0]) * uint64(opts.Groups[1]) * uint64(opts.Groups[2]) * entry.Invocations()
	}

	setLayouts := make([]*DescriptorSetLayout, opts.Set+1)
	for i := range setLayouts {
		layout := d.NewDescriptorSetLayout()
		if uint32(i) == opts.Set {
			layout.AddStorageBuffer(opts.Binding)
		}
		if _, err := d.CreateDescriptorSetLayout(layout); err != nil {
			return fail(StagePipeline, err)
		}
		f.transients = append(f.transients, layout)
		setLayouts[i] = layout
	}

	pipelineLayout, err := d.CreatePipelineLayout(setLayouts...)
	if err != nil {
		return fail(StagePipeline, err)
	}
	f.transients = append(f.transients, pipelineLayout)

	pipeline, err := d.CreateComputePipeline(pipelineLayout, shader, opts.EntryPoint)
	if err != nil {
		return fail(StagePipeline, err)
	}
	f.transients = append(f.transients, pipeline)

	if data == nil || data.HostBuffer == nil {
		return fail(StageDescriptor, errors.New("no storage buffer"))
	}

	pool := d.NewDescriptorPool()
	pool.AddPoolSize(vk.DescriptorTypeStorageBuffer, 1)
	if _, err := d.CreateDescriptorPool(pool, 1); err != nil {
		return fail(StageDescriptor, err)
	}
	f.transients = append(f.transients, pool)

	set, err := pool.Allocate(setLayouts[opts.Set])
	if err != nil {
		return fail(StageDescriptor, err)
	}
	set.AddBuffer(opts.Binding, vk.DescriptorTypeStorageBuffer, data.Buffer, 0)
	set.Write()

	cmdPool, err := d.CreateCommandPool(rt.QueueFamily())
	if err != nil {
		return fail(StageRecord, err)
	}
	f.transients = append(f.transients, cmdPool)

	cmd, err := cmdPool.AllocateBuffer()
	if err != nil {
		return fail(StageRecord, err)
	}

	if err := cmd.BeginOneTime(); err != nil {
		return fail(StageRecord, err)
	}
	f.state = Recording

	cmd.CmdBindComputePipeline(pipeline)
	cmd.CmdBindDescriptorSets(vk.PipelineBindPointCompute, pipelineLayout, opts.Set, set)
	cmd.CmdDispatch(opts.Groups[0], opts.Groups[1], opts.Groups[2])
	cmd.CmdHostReadBarrier(vk.PipelineStageComputeShaderBit, vk.AccessShaderWriteBit)

	if err := cmd.End(); err != nil {
		return fail(StageRecord, err)
	}
	f.state = Recorded

	fence, err := d.CreateFence()
	if err != nil {
		return fail(StageSubmit, err)
	}
	f.transients = append(f.transients, fence)
	f.fence = fence

	if err := rt.Queue().SubmitWithFence(fence, cmd); err != nil {
		return fail(StageSubmit, err)
	}
	f.state = Submitted
	f.rt.Retain()

	logging.WithFields(map[string]interface{}{
		"path":      shader.Path,
		"entry":     opts.EntryPoint,
		"groups":    opts.Groups,
		"footprint": f.footprint,
	}).Debug("dispatch submitted")

	return f, nil
}

// FenceFuture is the handle to a submitted dispatch. The GPU work runs
// independently of it; Wait, WaitContext and Done observe its completion and
// release the per-dispatch objects once it has completed. A future that is
// never waited on leaks those objects but does not cancel the work.
type FenceFuture struct {
	mu         sync.Mutex
	rt         *Runtime
	fence      *Fence
	data       *StorageBuffer
	transients []IDestructable
	state      DispatchState
	footprint  uint64
	waiters    int
	released   bool
}

// Wait blocks until the dispatch completes or timeout elapses. A negative
// timeout waits without limit. On timeout it returns ErrTimeout and the
// future can be waited on again. Other goroutines may call Done or State
// while Wait is blocked.
func (f *FenceFuture) Wait(timeout time.Duration) error {
	f.mu.Lock()
	switch f.state {
	case Completed:
		f.mu.Unlock()
		return nil
	case Failed:
		f.mu.Unlock()
		return newError(FenceWaitFailed, errors.New("dispatch already failed"))
	}
	d, fence := f.rt.Device(), f.fence
	f.waiters++
	f.mu.Unlock()

	err := d.WaitForFences(true, timeout, fence)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.waiters--
	switch {
	case errors.Is(err, ErrTimeout):
		f.cleanup()
		if f.state == Completed {
			return nil
		}
		return ErrTimeout
	case err != nil && f.state != Completed:
		f.complete(Failed)
		return newError(FenceWaitFailed, err)
	}
	f.complete(Completed)
	return nil
}

// WaitContext polls the fence until it signals or ctx is done.
func (f *FenceFuture) WaitContext(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		done, err := f.poll()
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Done reports without blocking whether the dispatch has completed.
func (f *FenceFuture) Done() bool {
	done, _ := f.poll()
	return done
}

func (f *FenceFuture) poll() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case Completed:
		return true, nil
	case Failed:
		return false, newError(FenceWaitFailed, errors.New("dispatch already failed"))
	}

	signaled, err := f.fence.Signaled()
	if err != nil {
		f.complete(Failed)
		return false, newError(FenceWaitFailed, err)
	}
	if signaled {
		f.complete(Completed)
	}
	return signaled, nil
}

func (f *FenceFuture) State() DispatchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Footprint is the number of shader invocations the dispatch launches, or 0
// when the module's local size could not be reflected.
func (f *FenceFuture) Footprint() uint64 {
	return f.footprint
}

// Buffer returns the storage buffer bound by the dispatch.
func (f *FenceFuture) Buffer() *StorageBuffer {
	return f.data
}

// complete moves a pending future to state and releases what it holds once
// no Wait is blocked on the fence. f.mu must be held.
func (f *FenceFuture) complete(state DispatchState) {
	if f.state != Completed && f.state != Failed {
		f.state = state
	}
	f.cleanup()
}

func (f *FenceFuture) cleanup() {
	if f.released || f.waiters > 0 {
		return
	}
	if f.state != Completed && f.state != Failed {
		return
	}
	f.released = true
	f.release()
	f.rt.Release()
}

func (f *FenceFuture) release() {
	for i := len(f.transients) - 1; i >= 0; i-- {
		f.transients[i].Destroy()
	}
	f.transients = nil
}
