package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/svg2video/internal/config"
	"github.com/ivlev/svg2video/internal/cover"
	"github.com/ivlev/svg2video/internal/rasterizer"
	"github.com/ivlev/svg2video/internal/sequencer"
	"github.com/ivlev/svg2video/internal/svgdoc"
	"github.com/ivlev/svg2video/internal/system"
	"github.com/ivlev/svg2video/internal/timeline"
	"github.com/ivlev/svg2video/internal/value"
	"github.com/ivlev/svg2video/internal/video"
)

func main() {
	system.InitResourceLimits()

	for _, d := range []string{"input/svg", "input/audio", "output"} {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Animated SVG to render (default: latest file in input/svg/)")
	outputPtr := flag.String("output", "", "Output video path (default: generated under output/)")
	profilePtr := flag.String("profile", "", "YAML render profile")
	durationPtr := flag.Float64("duration", 0, "Video length in seconds (0: from audio, else from the animation)")
	widthPtr := flag.Int("width", 1920, "Frame width")
	heightPtr := flag.Int("height", 1080, "Frame height")
	fpsPtr := flag.Int("fps", 30, "Frames per second")
	workersPtr := flag.Int("workers", 0, "Render workers (0: pick from CPU and memory)")
	chunkPtr := flag.Int("chunk", 200, "Frames rendered per batch")
	audioPtr := flag.String("audio", "", "Audio track (default: latest file in input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", true, "Stretch the animation to the audio length")
	bgColorPtr := flag.String("background", "#140a00", "Background color")
	bgImagePtr := flag.String("background-image", "", "Background image (scaled to the frame)")
	bgAudioPtr := flag.String("bg-audio", "", "Background music, looped and mixed under the audio track")
	bgVolumePtr := flag.Float64("bg-volume", 0.1, "Background music volume")
	timeScalePtr := flag.Float64("time-scale", 1, "Multiply all animation times")
	timeOffsetPtr := flag.Float64("time-offset", 0, "Shift all animation start times (seconds)")
	qualityPtr := flag.Int("quality", 0, "Encoder quality (0: auto per encoder)")
	coverPtr := flag.String("cover", "", "Also write a cover PNG to this path")
	coverTimePtr := flag.Float64("cover-time", 0, "Animation time for the cover still")
	coverURLPtr := flag.String("cover-url", "", "URL stamped on the cover as a QR code")
	coverOnlyPtr := flag.Bool("cover-only", false, "Write the cover and skip the video")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	cfg := config.Default()
	if *profilePtr != "" {
		prof, err := config.LoadProfile(*profilePtr)
		if err != nil {
			log.Fatalf("[-] Profile error: %v", err)
		}
		prof.Apply(cfg)
		fmt.Printf("[*] Profile applied: %s\n", *profilePtr)
	}

	// Explicit flags win over the profile.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.TotalDuration = *durationPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "chunk":
			cfg.FramesPerChunk = *chunkPtr
		case "audio":
			cfg.AudioPath = *audioPtr
		case "background":
			cfg.BackgroundColor = *bgColorPtr
		case "background-image":
			cfg.BackgroundImage = *bgImagePtr
		case "bg-audio":
			cfg.BackgroundAudio = *bgAudioPtr
		case "bg-volume":
			cfg.BackgroundVolume = *bgVolumePtr
		case "time-scale":
			cfg.TimeScale = *timeScalePtr
		case "time-offset":
			cfg.TimeOffset = *timeOffsetPtr
		case "quality":
			cfg.Quality = *qualityPtr
		case "cover":
			cfg.CoverOutput = *coverPtr
		case "cover-url":
			cfg.CoverURL = *coverURLPtr
		}
	})
	cfg.InputPath = *inputPtr
	cfg.OutputVideo = *outputPtr

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestSVG("input/svg")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put an SVG into input/svg/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Input selected: %s\n", cfg.InputPath)
	}

	doc, segments, err := svgdoc.Load(cfg.InputPath)
	if err != nil {
		log.Fatalf("[-] SVG error: %v", err)
	}

	// Audio discovery and sync.
	if cfg.AudioPath == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			cfg.AudioPath = latest
			fmt.Printf("[*] Audio selected: %s\n", cfg.AudioPath)
		}
	}

	if cfg.AudioPath != "" && *audioSyncPtr && cfg.TotalDuration == 0 {
		audioDur, err := system.GetAudioDuration(cfg.AudioPath)
		if err != nil {
			log.Printf("[!] Could not probe audio duration: %v", err)
		} else {
			cfg.TotalDuration = audioDur
			fmt.Printf("[*] Video length set from audio: %.2fs\n", audioDur)
		}
	}

	if cfg.TimeScale != 1 || cfg.TimeOffset != 0 {
		segments = timeline.Retime(segments, cfg.TimeScale, cfg.TimeOffset)
		fmt.Printf("[*] Animations retimed: x%.3f %+.2fs\n", cfg.TimeScale, cfg.TimeOffset)
	}

	tl, err := timeline.Build(doc, segments)
	if err != nil {
		log.Fatalf("[-] Timeline error: %v", err)
	}

	duration := cfg.TotalDuration
	if duration <= 0 {
		duration = tl.End()
		if duration <= 0 {
			log.Fatalf("[-] Error: animation has no finite end time, pass -duration")
		}
		fmt.Printf("[*] Video length from animation: %.2fs\n", duration)
	}

	// If audio drives the length and the animation is shorter, stretch it.
	if cfg.AudioPath != "" && *audioSyncPtr && cfg.TimeScale == 1 && cfg.TimeOffset == 0 {
		if end := tl.End(); end > 0 && duration > 0 && end != duration {
			scale := duration / end
			segments = timeline.Retime(segments, scale, 0)
			tl, err = timeline.Build(doc, segments)
			if err != nil {
				log.Fatalf("[-] Timeline error after retime: %v", err)
			}
			fmt.Printf("[*] Animation stretched to audio (x%.3f)\n", scale)
		}
	}

	bg, err := value.ParseColor(cfg.BackgroundColor)
	if err != nil {
		log.Fatalf("[-] Background color error: %v", err)
	}

	rasterOpts := rasterizer.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: bg,
	}
	if cfg.BackgroundImage != "" {
		img, err := loadImage(cfg.BackgroundImage)
		if err != nil {
			log.Fatalf("[-] Background image error: %v", err)
		}
		rasterOpts.BackgroundImage = img
	}

	if cfg.CoverOutput != "" {
		coverOpts := cover.Options{
			Raster: rasterOpts,
			Time:   *coverTimePtr,
			URL:    cfg.CoverURL,
		}
		if err := cover.WriteFile(cfg.CoverOutput, doc, tl, coverOpts); err != nil {
			log.Fatalf("[-] Cover error: %v", err)
		}
		fmt.Printf("[+] Cover written: %s\n", cfg.CoverOutput)
		if *coverOnlyPtr {
			return
		}
	}

	if cfg.OutputVideo == "" {
		base := strings.TrimSuffix(filepath.Base(cfg.InputPath), filepath.Ext(cfg.InputPath))
		base = strings.ReplaceAll(base, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputVideo = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", base, timestamp))
	}

	encoderName, _ := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Hardware encoder detected: %s\n", encoderName)
	}
	cfg.VideoEncoder = encoderName

	if cfg.Quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			cfg.Quality = 75
		case "h264_nvenc":
			cfg.Quality = 28
		default:
			cfg.Quality = 23
		}
	}

	if cfg.Workers == 0 {
		cfg.Workers = system.Workers(cfg.Width * cfg.Height * 4)
	}

	fmt.Println("--- [SVG2VIDEO] ---")
	fmt.Printf("[*] Input: %s | Animations: %d\n", cfg.InputPath, len(segments))
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Length: %.2fs | Workers: %d\n",
		cfg.Width, cfg.Height, cfg.FPS, duration, cfg.Workers)
	fmt.Println("-------------------")

	startTime := time.Now()
	ctx := context.Background()

	enc := &video.FFmpegEncoder{}
	stream, err := enc.Start(ctx, video.Params{
		Width:            cfg.Width,
		Height:           cfg.Height,
		FPS:              cfg.FPS,
		Duration:         duration,
		AudioPath:        cfg.AudioPath,
		BackgroundAudio:  cfg.BackgroundAudio,
		BackgroundVolume: cfg.BackgroundVolume,
		Encoder:          cfg.VideoEncoder,
		Quality:          cfg.Quality,
		OutputPath:       cfg.OutputVideo,
	})
	if err != nil {
		log.Fatalf("[-] Encoder error: %v", err)
	}

	job := sequencer.Job{
		Doc:            doc,
		Timeline:       tl,
		Options:        rasterOpts,
		FPS:            cfg.FPS,
		Duration:       duration,
		Workers:        cfg.Workers,
		FramesPerChunk: cfg.FramesPerChunk,
	}

	if err := sequencer.Run(ctx, job, stream); err != nil {
		stream.Abort()
		log.Fatalf("[-] Render error: %v", err)
	}

	if err := stream.Close(); err != nil {
		log.Fatalf("[-] Encode error: %v", err)
	}

	totalTime := time.Since(startTime)
	if *statsPtr {
		frames := job.FrameCount()
		fmt.Printf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Total Time: %.2fs\n"+
				"Frames: %d\n"+
				"Effective FPS: %.2f\n"+
				"----------------------------\n",
			totalTime.Seconds(), frames, float64(frames)/totalTime.Seconds())
	}

	fmt.Printf("[+++] Done: %s\n", cfg.OutputVideo)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
