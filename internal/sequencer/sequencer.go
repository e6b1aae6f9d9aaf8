// Package sequencer walks the timeline frame by frame and feeds rendered
// frames to a sink in presentation order. Frames inside a chunk render in
// parallel; chunks bound peak memory so an hour-long render does not hold
// every frame at once.
package sequencer

import (
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/rasterizer"
	"github.com/ivlev/svg2video/internal/snapshot"
	"github.com/ivlev/svg2video/internal/system"
	"github.com/ivlev/svg2video/internal/timeline"
)

// Sink receives frames strictly in order. *video.Stream satisfies it.
type Sink interface {
	WriteFrame(img image.Image) error
}

type Job struct {
	Doc      *document.Document
	Timeline *timeline.Timeline
	Options  rasterizer.Options

	FPS      int
	Start    float64
	Duration float64

	Workers        int
	FramesPerChunk int

	// Quiet suppresses per-chunk progress lines.
	Quiet bool
}

// FrameCount returns the number of frames the job will produce.
func (j Job) FrameCount() int {
	return int(math.Round(j.Duration * float64(j.FPS)))
}

// Run renders every frame of the job and hands them to the sink in order.
// Stops at the first render or sink error.
func Run(ctx context.Context, job Job, sink Sink) error {
	if job.FPS <= 0 {
		return fmt.Errorf("bad fps %d", job.FPS)
	}
	chunkSize := job.FramesPerChunk
	if chunkSize <= 0 {
		chunkSize = 200
	}
	workers := job.Workers
	if workers < 1 {
		workers = 1
	}

	total := job.FrameCount()
	frames := make([]*image.RGBA, chunkSize)

	for chunkStart := 0; chunkStart < total; chunkStart += chunkSize {
		chunkEnd := chunkStart + chunkSize
		if chunkEnd > total {
			chunkEnd = total
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i := chunkStart; i < chunkEnd; i++ {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				t := job.Start + float64(i)/float64(job.FPS)
				snap := snapshot.Snapshot(job.Doc, job.Timeline, t)

				frame := system.GetFrame(job.Options.Width, job.Options.Height)
				rasterizer.RenderInto(frame, snap, job.Options)
				frames[i-chunkStart] = frame
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			releaseFrames(frames)
			return err
		}

		for i := chunkStart; i < chunkEnd; i++ {
			frame := frames[i-chunkStart]
			err := sink.WriteFrame(frame)
			system.PutFrame(frame)
			frames[i-chunkStart] = nil
			if err != nil {
				releaseFrames(frames)
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}

		if !job.Quiet {
			fmt.Printf("[>] Frames: %d/%d\n", chunkEnd, total)
		}
	}

	return nil
}

func releaseFrames(frames []*image.RGBA) {
	for i, f := range frames {
		if f != nil {
			system.PutFrame(f)
			frames[i] = nil
		}
	}
}
