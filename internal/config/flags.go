package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Scene to bake: quad, cornell, tworooms")
	flagOutput     = flag.String("output", "", "Output lightmap path")
	flagResolution = flag.Int("resolution", 0, "Atlas resolution in texels")
	flagSamples    = flag.Int("samples", 0, "Samples per bake point")
	flagWorkers    = flag.Int("workers", 0, "Worker goroutine count (0 = NumCPU)")
	flagSeed       = flag.Uint64("seed", 0, "Global RNG seed (0 keeps the config/default value)")
	flagUseGPU     = flag.Bool("gpu", false, "Rasterize the gutter map on the GPU via glraster")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Runtime.Scene = *flagScene
	}
	if *flagOutput != "" {
		cfg.Runtime.OutputPath = *flagOutput
	}
	if *flagResolution > 0 {
		cfg.Atlas.Resolution = *flagResolution
	}
	if *flagSamples > 0 {
		cfg.Trace.Samples = *flagSamples
	}
	if *flagWorkers > 0 {
		cfg.Runtime.Workers = *flagWorkers
	}
	if *flagSeed > 0 {
		cfg.Runtime.GlobalSeed = *flagSeed
	}
	if *flagUseGPU {
		cfg.Runtime.UseGPU = true
	}
}
