package commands

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/GRAYgoose124/vulqueno"
	"github.com/GRAYgoose124/vulqueno/internal/logging"
)

func newImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Create an offscreen storage image",
		Long: `Create a width x height RGBA8 storage image on the runtime's queue
family. With --out the image is cleared to --clear, read back and written
as a PNG.`,
		Args: cobra.NoArgs,
		RunE: runImage,
	}

	flags := cmd.Flags()
	flags.Uint32("width", 2560, "image width")
	flags.Uint32("height", 1440, "image height")
	flags.String("out", "", "write the cleared image to this PNG file")
	flags.Float32Slice("clear", []float32{0.1, 0.2, 0.3, 1}, "clear color r,g,b,a")

	return cmd
}

func runImage(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Release()

	img, err := vulqueno.CreateStorageImage(rt, cfg.Image.Width, cfg.Image.Height)
	if err != nil {
		return err
	}
	defer img.Destroy()

	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", img)

	if cfg.Image.Out == "" {
		return nil
	}

	rgba, err := clearColor(cmd)
	if err != nil {
		return err
	}

	pix, err := vulqueno.ClearAndReadImage(rt, img, rgba)
	if err != nil {
		return err
	}

	if err := writePNG(cfg.Image.Out, pix, int(img.Width), int(img.Height)); err != nil {
		return err
	}
	logging.Infof("wrote %s", cfg.Image.Out)
	return nil
}

func clearColor(cmd *cobra.Command) ([4]float32, error) {
	c, err := cmd.Flags().GetFloat32Slice("clear")
	if err != nil {
		return [4]float32{}, err
	}
	if len(c) != 4 {
		return [4]float32{}, fmt.Errorf("--clear needs 4 components, got %d", len(c))
	}
	return [4]float32{c[0], c[1], c[2], c[3]}, nil
}

func writePNG(path string, pix []byte, width, height int) error {
	if len(pix) != width*height*4 {
		return fmt.Errorf("have %d bytes for a %dx%d image", len(pix), width, height)
	}
	rgba := &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, rgba); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
