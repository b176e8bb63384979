package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/fathomsound/oggdecode/internal/decodepipeline"
	"github.com/fathomsound/oggdecode/internal/pixconv"
)

// snapshotTimeout bounds how long the snapshot subcommand waits for a
// first video frame before giving up on a stream that has no video
// substream, or whose bootstrap is stalled.
const snapshotTimeout = 30 * time.Second

var (
	snapshotOut   string
	snapshotWidth int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <input.ogv>",
	Short: "Write the first decoded video frame to a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.png", "output PNG path")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", 0, "scale the snapshot to this width, preserving aspect ratio (0 keeps the decoded size)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	metrics := startMetrics(&cfg.Metrics, log)

	// Snapshotting always decodes to RGBA regardless of decode.output_pixel_format,
	// since that is the layout image.RGBA expects.
	h := decodepipeline.NewHandle(decodepipeline.Options{
		MaxBufferedVideoFrames: cfg.Decode.MaxBufferedVideoFrames,
		OutputPixelFormat:      pixconv.RGBA,
	}, log, metrics)

	if err := h.Start(args[0]); err != nil {
		return err
	}
	defer h.Stop()

	deadline := time.Now().Add(snapshotTimeout)
	for {
		if vf, ok := h.GetVideo(); ok {
			return writePNG(snapshotOut, vf)
		}
		if !h.IsDecoding() {
			if h.HadError() {
				return fmt.Errorf("snapshot: %w", h.Err())
			}
			return fmt.Errorf("snapshot: stream has no video frames")
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("snapshot: timed out waiting for a video frame")
		}
		time.Sleep(time.Millisecond)
	}
}

func writePNG(path string, vf decodepipeline.VideoFrame) error {
	src := &image.RGBA{
		Pix:    vf.Pixels,
		Stride: vf.Width * 4,
		Rect:   image.Rect(0, 0, vf.Width, vf.Height),
	}

	img := image.Image(src)
	if snapshotWidth > 0 && snapshotWidth != vf.Width {
		h := snapshotWidth * vf.Height / vf.Width
		dst := image.NewRGBA(image.Rect(0, 0, snapshotWidth, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("snapshot: encoding PNG: %w", err)
	}
	return nil
}
