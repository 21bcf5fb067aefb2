package stats

import (
	"sync"
)

// IntWindow keeps a window of data based on the number
// of samples it can hold. When the window is full, it discards
// the oldest data to leave space for new data. Safe for
// concurrent use
type IntWindow struct {
	mu         sync.Mutex
	offset     uint32
	end        uint32
	maxSamples uint32
	window     []int64
}

// NewIntWindow creates a new window that samples at most
// maxSamples
func NewIntWindow(maxSamples uint32) *IntWindow {
	return &IntWindow{
		offset:     0,
		end:        0,
		maxSamples: maxSamples,
		window:     make([]int64, maxSamples<<1),
	}
}

// Add a new sample to the window, shifting the window
// if maxSamples has been exceeded
func (w *IntWindow) Add(sample int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.window[w.end] = sample
	w.end++

	winlen := len(w.window)
	if w.end == uint32(winlen) {
		// once w.end gets to the end of the window, copy
		// w.maxSamples to the beginning of the window
		// and reset the indices
		index := uint32(winlen) - w.maxSamples
		copy(w.window, w.window[index:])
		w.offset = 0
		w.end = w.maxSamples
	}

	if w.end-w.offset > w.maxSamples {
		w.offset = w.end - w.maxSamples
	}
}

// Average returns the average of the samples currently held in the
// window, or 0 if the window is empty
func (w *IntWindow) Average() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	samples := w.window[w.offset:w.end]
	if len(samples) == 0 {
		return 0
	}

	var total int64
	for _, sample := range samples {
		total += sample
	}

	return total / int64(len(samples))
}

// Stats reports the aggregated view of the window
func (w *IntWindow) Stats() map[string]interface{} {
	return map[string]interface{}{
		"avg": w.Average(),
	}
}
