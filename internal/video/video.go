// Package video drives ffmpeg. Frames are pushed as raw RGBA over stdin so
// nothing ever hits the disk between the rasterizer and the encoder.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
)

// Params describes one encode run.
type Params struct {
	Width  int
	Height int
	FPS    int

	// Duration caps the output length in seconds. Zero means "until the
	// frame stream ends".
	Duration float64

	AudioPath        string
	BackgroundAudio  string
	BackgroundVolume float64

	Encoder string
	Quality int

	OutputPath string
}

// Encoder consumes a stream of frames and produces a video file.
type Encoder interface {
	Start(ctx context.Context, p Params) (*Stream, error)
}

type FFmpegEncoder struct{}

// Stream is a running ffmpeg process accepting raw frames.
type Stream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	output bytes.Buffer
}

func (e *FFmpegEncoder) Start(ctx context.Context, p Params) (*Stream, error) {
	args := buildArgs(p)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	s := &Stream{cmd: cmd}
	cmd.Stdout = &s.output
	cmd.Stderr = &s.output

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	s.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return s, nil
}

// WriteFrame sends one frame. The image must match the stream's resolution.
func (s *Stream) WriteFrame(img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := s.stdin.Write(rgba.Pix)
	return err
}

// Close ends the frame stream and waits for ffmpeg to finish the file.
func (s *Stream) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg error: %w\nlog: %s", err, s.output.String())
	}
	return nil
}

// Abort kills the process without waiting for a clean finish.
func (s *Stream) Abort() {
	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
}

func buildArgs(p Params) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}

	audioIndex := -1
	if p.AudioPath != "" {
		audioIndex = 1
		args = append(args, "-i", p.AudioPath)
	}

	filterGraph := ""
	audioOut := ""
	if audioIndex != -1 {
		if p.BackgroundAudio != "" {
			bgIndex := audioIndex + 1
			args = append(args, "-stream_loop", "-1", "-i", p.BackgroundAudio)

			filterGraph = fmt.Sprintf(
				"[%d:a]volume=%f[bg_a];[%d:a]volume=1.0[main_a];[main_a][bg_a]amix=inputs=2:duration=first:dropout_transition=3[aout]",
				bgIndex, p.BackgroundVolume, audioIndex)
			audioOut = "[aout]"
		} else {
			audioOut = fmt.Sprintf("%d:a", audioIndex)
		}
	}

	if filterGraph != "" {
		args = append(args, "-filter_complex", filterGraph)
	}

	args = append(args, "-map", "0:v")
	if audioOut != "" {
		args = append(args, "-map", audioOut, "-c:a", "aac", "-shortest")
	}

	args = append(args, "-pix_fmt", "yuv420p", "-c:v", p.Encoder)

	switch p.Encoder {
	case "h264_videotoolbox":
		// VideoToolbox ignores -crf on many versions, so drive it by bitrate.
		bitrate := p.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", p.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", p.Quality), "-preset", "medium")
	}

	if p.Duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%f", p.Duration))
	}

	args = append(args, p.OutputPath)
	return args
}

// ArgsString renders the ffmpeg invocation for logging.
func ArgsString(p Params) string {
	return "ffmpeg " + strings.Join(buildArgs(p), " ")
}
