package commands

import (
	"fmt"
	"io"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/GRAYgoose124/vulqueno"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the Vulkan device a runtime would use",
		Long: `Create a runtime and print the selected physical device, its queue
families and memory heaps, and the instance layers and extensions.`,
		Args: cobra.NoArgs,
		RunE: runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Release()

	out := cmd.OutOrStdout()
	pd := rt.PhysicalDevice()

	fmt.Fprintf(out, "\n%s\n", pd.DeviceName)
	fmt.Fprintf(out, "-----------------------------\n")
	fmt.Fprintf(out, "\tType: %s\n", pd.DeviceType())
	fmt.Fprintf(out, "\tAPI: %s\n", pd.APIVersion())
	fmt.Fprintf(out, "\tQueue family in use: %d\n", rt.QueueFamilyIndex())

	fmt.Fprintf(out, "\n\tQueue Families\n")
	families, err := pd.QueueFamilies()
	if err != nil {
		return err
	}
	for _, qf := range families {
		fmt.Fprintf(out, "\t\t%s\n", qf)
	}

	fmt.Fprintf(out, "\n\tHeaps\n")
	for _, h := range pd.MemoryHeaps() {
		local := ""
		if h.DeviceLocal {
			local = "device local"
		}
		fmt.Fprintf(out, "\t\t%s\t%s\n", units.BytesSize(float64(h.Size)), local)
	}

	extensions, err := pd.SupportedExtensions()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n\tDevice extensions: %d\n\n", len(extensions))

	layers, err := vulqueno.SupportedLayers()
	if err != nil {
		return err
	}
	list(out, "Layers", layers)

	instanceExtensions, err := vulqueno.SupportedExtensions()
	if err != nil {
		return err
	}
	list(out, "Extensions", instanceExtensions)

	return nil
}

func list(out io.Writer, title string, data []string) {
	fmt.Fprintf(out, "%s\n", title)
	fmt.Fprintf(out, "-----------------------------\n")
	for _, d := range data {
		fmt.Fprintf(out, "\t%s\n", d)
	}
	fmt.Fprintf(out, "\n")
}
