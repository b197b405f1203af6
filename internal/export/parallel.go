package export

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
)

// minChunk is the smallest run of frames worth a goroutine.
const minChunk = 8

// parallelFor splits [0, n) into contiguous chunks run concurrently.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// renderFrames paints every frame; output order matches frames. Workers
// stop at the next frame once ctx is done.
func renderFrames(ctx context.Context, frames []grid.Frame, r render.Renderer) ([]*image.Paletted, error) {
	out := make([]*image.Paletted, len(frames))
	parallelFor(len(frames), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			out[i] = r.Frame(frames[i])
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
