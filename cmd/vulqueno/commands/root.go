package commands

import (
	"github.com/spf13/cobra"

	"github.com/GRAYgoose124/vulqueno"
	"github.com/GRAYgoose124/vulqueno/internal/config"
	"github.com/GRAYgoose124/vulqueno/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vulqueno",
		Short: "Run Vulkan compute shaders from the command line",
		Long: `vulqueno creates a Vulkan runtime on the first graphics capable device and
dispatches SPIR-V compute shaders against host visible storage buffers.

Settings are read from flags, VULQUENO_* environment variables and
$HOME/.vulqueno/config.yaml, in that order.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return logging.Init(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Console)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vulqueno/config.yaml)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "also write logs to this file")
	flags.Int("device", 0, "physical device index")
	flags.Bool("require-compute", false, "require the queue family to support compute as well as graphics")

	rootCmd.AddCommand(
		newInfoCommand(),
		newComputeCommand(),
		newImageCommand(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func newRuntime() (*vulqueno.Runtime, error) {
	return vulqueno.NewWithOptions(&vulqueno.RuntimeOptions{
		DeviceIndex:    cfg.Device,
		RequireCompute: cfg.RequireCompute,
	})
}
