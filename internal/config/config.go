// Package config handles bake configuration loading and management.
package config

// Config holds all bake settings.
type Config struct {
	Atlas   AtlasConfig   `yaml:"atlas"`
	Trace   TraceConfig   `yaml:"trace"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Logging LoggingConfig `yaml:"logging"`
}

// AtlasConfig controls chart packing.
type AtlasConfig struct {
	Resolution int `yaml:"resolution"` // atlas side length in texels, power of two
	Padding    int `yaml:"padding"`    // texels reserved between charts
}

// TraceConfig controls the Monte-Carlo path tracer.
type TraceConfig struct {
	Samples            int        `yaml:"samples"`
	Bounces            int        `yaml:"bounces"`
	Offset             float32    `yaml:"offset"`
	LightDir           [3]float32 `yaml:"light_dir"`
	LightColor         [3]float32 `yaml:"light_color"`
	GroundAlbedo       [3]float32 `yaml:"ground_albedo"`
	IncludeSkyBounces  bool       `yaml:"include_sky_bounces"`
	Conservative       bool       `yaml:"enable_conservative_raster"`
	BilinearFilter     bool       `yaml:"enable_bilinear_filter"`
}

// RuntimeConfig controls scheduling, scene selection, and output.
type RuntimeConfig struct {
	Workers    int    `yaml:"workers"` // 0 means runtime.NumCPU()
	GlobalSeed uint64 `yaml:"global_seed"`
	Scene      string `yaml:"scene"` // "quad", "cornell", "tworooms"
	OutputPath string `yaml:"output_path"`
	PreviewPNG string `yaml:"preview_png"` // optional, empty disables
	UseGPU     bool   `yaml:"use_gpu"`     // rasterize via glraster instead of the CPU fallback
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Atlas: AtlasConfig{
			Resolution: 512,
			Padding:    4,
		},
		Trace: TraceConfig{
			Samples:           64,
			Bounces:           2,
			Offset:            1e-3,
			LightDir:          [3]float32{-0.4, -1, -0.3},
			LightColor:        [3]float32{1, 1, 1},
			GroundAlbedo:      [3]float32{0.7, 0.7, 0.7},
			IncludeSkyBounces: false,
			Conservative:      true,
			BilinearFilter:    false,
		},
		Runtime: RuntimeConfig{
			Workers:    0,
			GlobalSeed: 42,
			Scene:      "quad",
			OutputPath: "lightmap.raw",
			PreviewPNG: "",
			UseGPU:     false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
