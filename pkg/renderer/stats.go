package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width            int             // Image width
	Height           int             // Image height
	NumWorkers       int             // Workers that rendered a frame
	SamplesPerWorker int             // Samples per pixel in each worker's frame
	SamplesPerPixel  int             // Effective samples per pixel in the final image
	DroppedSamples   int             // Requested samples lost to integer division
	TotalPixels      int             // Pixels in the image
	TotalSamples     int             // Camera rays traced across all workers
	Duration         time.Duration   // Wall time from dispatch to reduction
	WorkerDurations  []time.Duration // Render time of each worker, by task ID
}

// SlowestWorker returns the longest worker render time
func (s RenderStats) SlowestWorker() time.Duration {
	var slowest time.Duration
	for _, d := range s.WorkerDurations {
		slowest = max(slowest, d)
	}
	return slowest
}

// RaysPerSecond returns the camera ray throughput over the whole render
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}
