package renderer

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
)

// FrameTask asks a worker to render one full frame
type FrameTask struct {
	TaskID          int   // Slot of the result in the reduction
	SamplesPerPixel int   // Samples per pixel for this frame
	Seed            int64 // Seed of the worker's private sampler
}

// FrameResult contains the frame rendered for a task
type FrameResult struct {
	TaskID   int
	Image    *Image
	Duration time.Duration
	Error    error
}

// WorkerPool manages parallel frame rendering
type WorkerPool struct {
	taskQueue   chan FrameTask
	resultQueue chan FrameResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders frame tasks with its own raytracer
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan FrameTask
	resultQueue chan FrameResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are sized so that submitting numWorkers tasks and producing their
// results never blocks.
func NewWorkerPool(scene Scene, width, height int, integ integrator.Integrator, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan FrameTask, numWorkers),
		resultQueue: make(chan FrameResult, numWorkers),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   NewRaytracer(scene, width, height, integ),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a frame task to the worker pool
func (wp *WorkerPool) SubmitTask(task FrameTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed frame result
func (wp *WorkerPool) GetResult() (FrameResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.render(task)
	}
}

// render executes one task. A panic inside the render is reported as the
// task's error instead of taking down the process.
func (w *Worker) render(task FrameTask) (result FrameResult) {
	result.TaskID = task.TaskID
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Image = nil
			result.Error = errors.Errorf("worker %d panicked on task %d: %v\n%s", w.ID, task.TaskID, r, debug.Stack())
		}
	}()

	sampler := core.NewSeededSampler(task.Seed)
	result.Image = w.raytracer.RenderFrame(task.SamplesPerPixel, sampler)
	return result
}
