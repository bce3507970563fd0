package renderer

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
)

// State tracks a coordinator through one render
type State int

const (
	StateIdle       State = iota // Created, nothing dispatched
	StateDispatched              // Tasks submitted to the pool
	StateCollecting              // Waiting for worker results
	StateReduced                 // Final image produced
	StateFailed                  // A worker or the reduction failed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatched:
		return "dispatched"
	case StateCollecting:
		return "collecting"
	case StateReduced:
		return "reduced"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RenderConfig contains the parameters of a parallel render
type RenderConfig struct {
	SamplesPerPixel int   // Total samples per pixel across all workers
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed; worker seeds are derived from it
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0,
		Seed:            1,
	}
}

// Validate checks the configuration can drive a render
func (c RenderConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return errors.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return errors.Errorf("worker count must not be negative, got %d", c.NumWorkers)
	}
	return nil
}

const goldenGamma uint64 = 0x9e3779b97f4a7c15

// WorkerSeed derives the sampler seed of worker index from the base seed.
// Distinct indices give distinct seeds for the same base.
func WorkerSeed(base int64, index int) int64 {
	return base ^ int64(uint64(index+1)*goldenGamma)
}

// Coordinator splits a render across workers, each rendering the whole image
// with a share of the samples, and averages their frames. A Coordinator
// renders once and is not safe for concurrent use.
type Coordinator struct {
	scene  Scene
	width  int
	height int
	config RenderConfig
	logger core.Logger
	state  State
}

// NewCoordinator creates a coordinator for one render of scene
func NewCoordinator(scene Scene, width, height int, config RenderConfig, logger core.Logger) *Coordinator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Coordinator{
		scene:  scene,
		width:  width,
		height: height,
		config: config,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns where the coordinator is in its render
func (c *Coordinator) State() State {
	return c.state
}

// workerCount resolves the configured worker count, clamped so that every
// worker gets at least one sample per pixel.
func (c *Coordinator) workerCount() int {
	n := c.config.NumWorkers
	if n == 0 {
		n = DefaultWorkerCount()
	}
	return max(1, min(n, c.config.SamplesPerPixel))
}

// Render runs the workers, blocks until every frame is back and returns their
// average. Any worker failure aborts the render and no partial image is returned.
func (c *Coordinator) Render() (*Image, RenderStats, error) {
	if c.state != StateIdle {
		return nil, RenderStats{}, errors.Errorf("coordinator already used (state %s)", c.state)
	}
	if err := c.config.Validate(); err != nil {
		c.state = StateFailed
		return nil, RenderStats{}, errors.Wrap(err, "invalid render config")
	}
	if c.width < 1 || c.height < 1 {
		c.state = StateFailed
		return nil, RenderStats{}, errors.Errorf("image size must be positive, got %dx%d", c.width, c.height)
	}
	if c.scene == nil || c.scene.GetCamera() == nil {
		c.state = StateFailed
		return nil, RenderStats{}, errors.New("scene has no camera")
	}
	if v, ok := c.scene.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			c.state = StateFailed
			return nil, RenderStats{}, errors.Wrap(err, "invalid scene")
		}
	}

	numWorkers := c.workerCount()
	samplesPerWorker := c.config.SamplesPerPixel / numWorkers
	dropped := c.config.SamplesPerPixel - samplesPerWorker*numWorkers
	if dropped > 0 {
		c.logger.Printf("Splitting %d samples over %d workers drops %d samples per pixel\n",
			c.config.SamplesPerPixel, numWorkers, dropped)
	}

	stats := RenderStats{
		Width:            c.width,
		Height:           c.height,
		NumWorkers:       numWorkers,
		SamplesPerWorker: samplesPerWorker,
		SamplesPerPixel:  samplesPerWorker * numWorkers,
		DroppedSamples:   dropped,
		TotalPixels:      c.width * c.height,
	}
	stats.TotalSamples = stats.TotalPixels * stats.SamplesPerPixel

	seeds := lo.Times(numWorkers, func(i int) int64 {
		return WorkerSeed(c.config.Seed, i)
	})

	integ := integrator.NewPathTracingIntegrator(c.config.MaxDepth)
	pool := NewWorkerPool(c.scene, c.width, c.height, integ, numWorkers)

	c.logger.Printf("Rendering %dx%d with %d workers, %d samples per pixel each (max depth %d)...\n",
		c.width, c.height, pool.GetNumWorkers(), samplesPerWorker, integ.MaxDepth())

	start := time.Now()
	pool.Start()
	defer pool.Stop()

	for i, seed := range seeds {
		pool.SubmitTask(FrameTask{
			TaskID:          i,
			SamplesPerPixel: samplesPerWorker,
			Seed:            seed,
		})
	}
	c.state = StateDispatched

	// Slot results by task ID so the reduction does not depend on completion order
	frames := make([]*Image, numWorkers)
	stats.WorkerDurations = make([]time.Duration, numWorkers)
	c.state = StateCollecting
	for i := 0; i < numWorkers; i++ {
		result, ok := pool.GetResult()
		if !ok {
			c.state = StateFailed
			return nil, RenderStats{}, errors.New("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			c.state = StateFailed
			return nil, RenderStats{}, errors.Wrapf(result.Error, "render task %d", result.TaskID)
		}

		frames[result.TaskID] = result.Image
		stats.WorkerDurations[result.TaskID] = result.Duration
		c.logger.Printf("Worker frame %d/%d completed in %v\n", i+1, numWorkers, result.Duration)
	}

	img, err := Average(frames...)
	if err != nil {
		c.state = StateFailed
		return nil, RenderStats{}, errors.Wrap(err, "reduce frames")
	}
	stats.Duration = time.Since(start)
	c.state = StateReduced

	c.logger.Printf("Render completed in %v (%d samples per pixel)\n", stats.Duration, stats.SamplesPerPixel)
	return img, stats, nil
}
