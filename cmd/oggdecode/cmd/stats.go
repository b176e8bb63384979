package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"

	"github.com/fathomsound/oggdecode/internal/decodepipeline"
	"github.com/fathomsound/oggdecode/internal/pixconv"
)

// sampleInterval is how often the stats subcommand polls process resource
// usage while a decode runs.
const sampleInterval = 200 * time.Millisecond

var statsCmd = &cobra.Command{
	Use:   "stats <input.ogv>",
	Short: "Decode a file at full speed, reporting throughput and resource usage",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	metrics := startMetrics(&cfg.Metrics, log)

	format, err := pixconv.ParseFormat(cfg.Decode.OutputPixelFormat)
	if err != nil {
		return err
	}

	proc, procErr := process.NewProcess(int32(os.Getpid()))

	h := decodepipeline.NewHandle(decodepipeline.Options{
		MaxBufferedVideoFrames: cfg.Decode.MaxBufferedVideoFrames,
		OutputPixelFormat:      format,
	}, log, metrics)

	if err := h.Start(args[0]); err != nil {
		return err
	}

	var cpuSamples []float64
	var rssPeak uint64
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	start := time.Now()
	var frames, samples uint64

	for {
		select {
		case <-ticker.C:
			if procErr == nil {
				if pct, err := proc.CPUPercent(); err == nil {
					cpuSamples = append(cpuSamples, pct)
				}
				if mi, err := proc.MemoryInfo(); err == nil && mi.RSS > rssPeak {
					rssPeak = mi.RSS
				}
			}
		default:
		}

		decoding := h.IsDecoding()
		if _, ok := h.GetVideo(); ok {
			frames++
		}
		if ap, ok := h.GetAudio(); ok {
			samples += uint64(ap.Frames)
		}
		if !decoding && h.VideoQueueDepth() == 0 {
			break
		}
	}

	h.Stop()
	elapsed := time.Since(start)

	fmt.Printf("frames=%d samples=%d elapsed=%s\n", frames, samples, elapsed.Round(time.Millisecond))
	if len(cpuSamples) > 0 {
		fmt.Printf("cpu_percent_avg=%.1f rss_peak_mb=%.1f\n", average(cpuSamples), float64(rssPeak)/(1<<20))
	}

	if h.HadError() {
		return fmt.Errorf("stats: %w", h.Err())
	}
	return nil
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
