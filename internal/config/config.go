package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath   string
	OutputVideo string

	Width  int
	Height int
	FPS    int

	// TotalDuration is the target length in seconds. Zero means "use the
	// animation's own end time" (or the audio length when audio is present).
	TotalDuration float64

	// TimeScale and TimeOffset retime every animation before rendering.
	TimeScale  float64
	TimeOffset float64

	Workers        int
	FramesPerChunk int

	AudioPath        string
	BackgroundAudio  string
	BackgroundVolume float64

	BackgroundColor string
	BackgroundImage string

	VideoEncoder string
	Quality      int

	CoverOutput string
	CoverURL    string

	ShowStats    bool
	BuildVersion string
}

// Default returns the settings used when neither flags nor a profile say
// otherwise.
func Default() *Config {
	return &Config{
		OutputVideo:      "output.mp4",
		Width:            1920,
		Height:           1080,
		FPS:              30,
		TimeScale:        1,
		FramesPerChunk:   200,
		BackgroundVolume: 0.1,
		BackgroundColor:  "#140a00",
		Quality:          23,
	}
}

// Profile is an optional YAML render preset. Every field is a pointer so an
// absent key leaves the flag or default value alone.
type Profile struct {
	Width            *int     `yaml:"width"`
	Height           *int     `yaml:"height"`
	FPS              *int     `yaml:"fps"`
	TotalDuration    *float64 `yaml:"total_duration"`
	TimeScale        *float64 `yaml:"time_scale"`
	TimeOffset       *float64 `yaml:"time_offset"`
	Workers          *int     `yaml:"workers"`
	FramesPerChunk   *int     `yaml:"frames_per_chunk"`
	AudioPath        *string  `yaml:"audio"`
	BackgroundAudio  *string  `yaml:"background_audio"`
	BackgroundVolume *float64 `yaml:"background_volume"`
	BackgroundColor  *string  `yaml:"background_color"`
	BackgroundImage  *string  `yaml:"background_image"`
	VideoEncoder     *string  `yaml:"encoder"`
	Quality          *int     `yaml:"quality"`
	CoverURL         *string  `yaml:"cover_url"`
}

// LoadProfile reads a YAML preset from disk.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("bad profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply overlays the profile's set fields onto cfg.
func (p *Profile) Apply(cfg *Config) {
	if p.Width != nil {
		cfg.Width = *p.Width
	}
	if p.Height != nil {
		cfg.Height = *p.Height
	}
	if p.FPS != nil {
		cfg.FPS = *p.FPS
	}
	if p.TotalDuration != nil {
		cfg.TotalDuration = *p.TotalDuration
	}
	if p.TimeScale != nil {
		cfg.TimeScale = *p.TimeScale
	}
	if p.TimeOffset != nil {
		cfg.TimeOffset = *p.TimeOffset
	}
	if p.Workers != nil {
		cfg.Workers = *p.Workers
	}
	if p.FramesPerChunk != nil {
		cfg.FramesPerChunk = *p.FramesPerChunk
	}
	if p.AudioPath != nil {
		cfg.AudioPath = *p.AudioPath
	}
	if p.BackgroundAudio != nil {
		cfg.BackgroundAudio = *p.BackgroundAudio
	}
	if p.BackgroundVolume != nil {
		cfg.BackgroundVolume = *p.BackgroundVolume
	}
	if p.BackgroundColor != nil {
		cfg.BackgroundColor = *p.BackgroundColor
	}
	if p.BackgroundImage != nil {
		cfg.BackgroundImage = *p.BackgroundImage
	}
	if p.VideoEncoder != nil {
		cfg.VideoEncoder = *p.VideoEncoder
	}
	if p.Quality != nil {
		cfg.Quality = *p.Quality
	}
	if p.CoverURL != nil {
		cfg.CoverURL = *p.CoverURL
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("bad resolution %dx%d", c.Width, c.Height)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("resolution %dx%d must be even for yuv420p output", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("bad fps %d", c.FPS)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("bad time scale %g", c.TimeScale)
	}
	if c.FramesPerChunk <= 0 {
		return fmt.Errorf("bad chunk size %d", c.FramesPerChunk)
	}
	return nil
}
