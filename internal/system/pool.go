package system

import (
	"image"
	"sync"
)

// FramePool recycles RGBA frame buffers between renders. At 1920x1080 a
// frame is ~8MB, so letting the GC churn through one per frame dominates
// render time; the pool keeps a free list per frame size instead.
type FramePool struct {
	mu    sync.RWMutex
	pools map[[2]int]*sync.Pool
}

var globalFrames = &FramePool{pools: make(map[[2]int]*sync.Pool)}

// GetFrame returns a zero-origin RGBA buffer of the given size from the
// shared pool. Contents are undefined; callers overwrite the whole frame.
func GetFrame(width, height int) *image.RGBA {
	return globalFrames.Get(width, height)
}

// PutFrame returns a buffer to the shared pool for reuse.
func PutFrame(img *image.RGBA) {
	globalFrames.Put(img)
}

func (p *FramePool) Get(width, height int) *image.RGBA {
	key := [2]int{width, height}
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(image.Rect(0, 0, width, height))
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := [2]int{img.Rect.Dx(), img.Rect.Dy()}
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
