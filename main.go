package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/output"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneName  string
	ScenesDir  string
	Width      int
	Samples    int
	MaxDepth   int
	NumWorkers int
	Seed       int64
	Output     string
	List       bool
	Help       bool
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneName, "scene", "default", "Built-in scene name or path to a .json scene file")
	flag.StringVar(&config.ScenesDir, "scenes-dir", "scenes", "Directory searched for .json scenes by -list")
	flag.IntVar(&config.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	flag.IntVar(&config.NumWorkers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	flag.Int64Var(&config.Seed, "seed", 1, "Base random seed")
	flag.StringVar(&config.Output, "output", "", "Output file (.png, .ppm, .bmp, .tiff); default output/<scene>/render_<timestamp>.png")
	flag.BoolVar(&config.List, "list", false, "List available scenes")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()
	return config
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}
	if config.List {
		if err := listScenes(config.ScenesDir); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(config); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Batch Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, name := range scene.BuiltinNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Output formats (by file extension):")
	for _, format := range output.Formats {
		fmt.Printf("  %s\n", format)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -output is given")
}

func listScenes(dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, info := range scenes {
		fmt.Printf("%-24s %-8s %s\n", info.ID, info.Type, info.Description)
	}
	return nil
}

// createScene builds the named scene, applying a width override when non-zero
func createScene(name string, width int) (*scene.Scene, error) {
	if width < 0 {
		return nil, errors.Errorf("width must not be negative, got %d", width)
	}
	return scene.Create(name, geometry.CameraConfig{Width: width})
}

// renderConfig merges command line overrides onto the scene's recommended sampling
func renderConfig(config Config, sc *scene.Scene) renderer.RenderConfig {
	rc := renderer.DefaultRenderConfig()
	if sc.SamplingConfig.SamplesPerPixel > 0 {
		rc.SamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
	}
	if sc.SamplingConfig.MaxDepth > 0 {
		rc.MaxDepth = sc.SamplingConfig.MaxDepth
	}
	if config.Samples > 0 {
		rc.SamplesPerPixel = config.Samples
	}
	if config.MaxDepth > 0 {
		rc.MaxDepth = config.MaxDepth
	}
	rc.NumWorkers = config.NumWorkers
	rc.Seed = config.Seed
	return rc
}

// outputPath returns the explicit output path or a timestamped default
func outputPath(config Config, now time.Time) string {
	if config.Output != "" {
		return config.Output
	}
	sceneDir := config.SceneName
	if filepath.Ext(sceneDir) != "" {
		sceneDir = filepath.Base(sceneDir[:len(sceneDir)-len(filepath.Ext(sceneDir))])
	}
	return filepath.Join("output", sceneDir, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func run(config Config) error {
	fmt.Println("Starting Batch Raytracer...")

	sc, err := createScene(config.SceneName, config.Width)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s scene (%d spheres, %d materials)\n", config.SceneName, len(sc.Spheres), len(sc.Materials))

	rc := renderConfig(config, sc)
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height

	coordinator := renderer.NewCoordinator(sc, width, height, rc, renderer.NewDefaultLogger())
	img, stats, err := coordinator.Render()
	if err != nil {
		return err
	}

	fmt.Printf("Render completed in %v\n", stats.Duration)
	fmt.Printf("Samples per pixel: %d (%d workers x %d", stats.SamplesPerPixel, stats.NumWorkers, stats.SamplesPerWorker)
	if stats.DroppedSamples > 0 {
		fmt.Printf(", %d dropped", stats.DroppedSamples)
	}
	fmt.Println(")")
	fmt.Printf("Throughput: %.0f camera rays/s, slowest worker %v, average luminance %.4f\n",
		stats.RaysPerSecond(), stats.SlowestWorker(), img.AverageLuminance())

	filename := outputPath(config, time.Now())
	if err := output.Save(filename, img); err != nil {
		return err
	}

	fmt.Printf("Render saved as %s\n", filename)
	return nil
}
