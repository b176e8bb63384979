package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fathomsound/oggdecode/internal/decodepipeline"
	"github.com/fathomsound/oggdecode/internal/pixconv"
)

var playCmd = &cobra.Command{
	Use:   "play <input.ogv>",
	Short: "Decode a file, pacing output the way a real-time playback client would",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Int("max-buffered-video-frames", 0, "override decode.max_buffered_video_frames (0 keeps the configured default)")
	playCmd.Flags().String("output-pixel-format", "", "override decode.output_pixel_format (YV12, IYUV, RGB, RGBA)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	if f, _ := cmd.Flags().GetInt("max-buffered-video-frames"); f > 0 {
		cfg.Decode.MaxBufferedVideoFrames = f
	}
	if f, _ := cmd.Flags().GetString("output-pixel-format"); f != "" {
		cfg.Decode.OutputPixelFormat = f
	}

	log := newLogger(cfg)
	metrics := startMetrics(&cfg.Metrics, log)

	format, err := pixconv.ParseFormat(cfg.Decode.OutputPixelFormat)
	if err != nil {
		return err
	}

	h := decodepipeline.NewHandle(decodepipeline.Options{
		MaxBufferedVideoFrames: cfg.Decode.MaxBufferedVideoFrames,
		OutputPixelFormat:      format,
	}, log, metrics)

	if err := h.Start(args[0]); err != nil {
		return err
	}

	start := time.Now()
	var frames, samples uint64

	for {
		decoding := h.IsDecoding()
		vf, vok := h.GetVideo()
		ap, aok := h.GetAudio()

		if vok {
			frames++
			if wait := vf.PlayTime - time.Since(start); wait > 0 {
				time.Sleep(wait)
			}
		}
		if aok {
			samples += uint64(ap.Frames)
		}

		if !decoding && !vok && !aok {
			break
		}
		if !vok && !aok {
			time.Sleep(time.Millisecond)
		}
	}

	h.Stop()

	if vendor := h.Vendor(); vendor != "" {
		fmt.Println("vendor:", vendor)
		for _, tag := range h.Tags() {
			fmt.Println("tag:", tag)
		}
	}
	fmt.Printf("decoded %d video frames, %d audio sample-frames in %s\n", frames, samples, time.Since(start).Round(time.Millisecond))

	if h.HadError() {
		return fmt.Errorf("play: %w", h.Err())
	}
	return nil
}
