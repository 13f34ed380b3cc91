package commands

import (
	"context"
	"fmt"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GRAYgoose124/vulqueno"
	"github.com/GRAYgoose124/vulqueno/internal/logging"
)

func newComputeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Dispatch a multiply kernel and verify the result",
		Long: `Fill a storage buffer with 0..n-1, dispatch the SPIR-V compute shader
against it and check that every invoked element was multiplied by the
factor. With --runtimes greater than one, each runtime runs its own
dispatch concurrently and all results must agree.`,
		Args: cobra.NoArgs,
		RunE: runCompute,
	}

	flags := cmd.Flags()
	flags.String("shader", "shaders/shader.spv", "SPIR-V compute shader")
	flags.Duration("timeout", 10*time.Second, "fence wait timeout, negative waits forever")
	flags.Int("elements", 65536, "number of uint32 elements in the buffer")
	flags.Uint32("factor", 12, "factor the shader multiplies by")
	flags.StringSlice("groups", []string{"1024", "1", "1"}, "workgroup counts x,y,z")
	flags.Int("runtimes", 1, "number of independent runtimes to dispatch on")

	return cmd
}

func runCompute(cmd *cobra.Command, args []string) error {
	if cfg.Runtimes == 1 {
		out, err := computeOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "verified %d elements, data[%d] = %d\n", len(out), len(out)-1, out[len(out)-1])
		return nil
	}

	results := make([][]uint32, cfg.Runtimes)
	g, ctx := errgroup.WithContext(cmd.Context())
	for i := range results {
		i := i
		g.Go(func() error {
			out, err := computeOnce(ctx)
			if err != nil {
				return fmt.Errorf("runtime %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := 1; i < len(results); i++ {
		if err := compareResults(results[0], results[i]); err != nil {
			return fmt.Errorf("runtime %d disagrees with runtime 0: %w", i, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verified %d elements on %d runtimes\n", len(results[0]), len(results))
	return nil
}

func computeOnce(ctx context.Context) ([]uint32, error) {
	rt, err := newRuntime()
	if err != nil {
		return nil, err
	}
	defer rt.Release()

	buf, err := vulqueno.NewStorageBufferFrom(rt, vulqueno.Iota(cfg.Elements))
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	opts := vulqueno.DefaultDispatchOptions()
	opts.Groups = cfg.GroupCounts()

	start := time.Now()
	future, err := vulqueno.ExecuteComputeWithOptions(cfg.Shader, buf, rt, opts)
	if err != nil {
		return nil, err
	}

	if future.Footprint() > uint64(cfg.Elements) {
		logging.Warnf("dispatch launches %d invocations for %d elements", future.Footprint(), cfg.Elements)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout >= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := future.WaitContext(ctx); err != nil {
		drainFuture(rt, future)
		return nil, err
	}

	logging.WithFields(map[string]interface{}{
		"device":  rt.PhysicalDevice().DeviceName,
		"buffer":  units.BytesSize(float64(buf.Size())),
		"elapsed": time.Since(start),
	}).Info("dispatch complete")

	out := append([]uint32(nil), buf.Uint32s()...)
	if err := verifyMultiplied(out, cfg.Factor, future.Footprint()); err != nil {
		return nil, err
	}
	return out, nil
}

// drainFuture waits for the device to go idle after an abandoned wait so the
// future can release its objects and its Runtime reference before the buffer
// is destroyed.
func drainFuture(rt *vulqueno.Runtime, future *vulqueno.FenceFuture) {
	if err := rt.Device().WaitIdle(); err != nil {
		logging.Errorf("device did not go idle, leaking dispatch: %v", err)
		return
	}
	if !future.Done() {
		logging.Warnf("dispatch still pending after device idle")
	}
}

// verifyMultiplied checks that data[i] == i*factor for every invoked element
// and data[i] == i past the footprint. A zero footprint means every element
// was invoked.
func verifyMultiplied(data []uint32, factor uint32, footprint uint64) error {
	for i, v := range data {
		want := uint32(i)
		if footprint == 0 || uint64(i) < footprint {
			want *= factor
		}
		if v != want {
			return fmt.Errorf("data[%d] = %d, want %d", i, v, want)
		}
	}
	return nil
}

func compareResults(a, b []uint32) error {
	if len(a) != len(b) {
		return fmt.Errorf("length %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("data[%d]: %d != %d", i, a[i], b[i])
		}
	}
	return nil
}
