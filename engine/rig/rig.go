// package rig steps any number of orbit cameras against a shared collision world, fanning
// the work out over a worker pool when there is more than one camera.
package rig

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/Carmen-Shannon/oxy-orbit/engine/profiler"
)

// Rig owns a set of mounts and updates them together once per frame.
type Rig struct {
	mu sync.Mutex

	mounts   []*Mount
	workers  int
	pool     worker.DynamicWorkerPool
	profiler *profiler.Profiler
	closed   bool
}

// RigOption is a functional option for configuring a Rig.
type RigOption func(*Rig)

// WithWorkers sets the size of the step worker pool. 1 or less steps mounts sequentially
// on the calling goroutine.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - RigOption: functional option to set the worker count
func WithWorkers(n int) RigOption {
	return func(r *Rig) {
		r.workers = n
	}
}

// WithProfiler attaches a profiler that observes every Step.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - RigOption: functional option to set the profiler
func WithProfiler(p *profiler.Profiler) RigOption {
	return func(r *Rig) {
		r.profiler = p
	}
}

// WithMounts adds mounts at construction.
//
// Parameters:
//   - mounts: the mounts to add
//
// Returns:
//   - RigOption: functional option to add mounts
func WithMounts(mounts ...*Mount) RigOption {
	return func(r *Rig) {
		r.mounts = append(r.mounts, mounts...)
	}
}

// NewRig creates a rig. The worker count defaults to NumCPU-1 (at least 1).
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - *Rig: the new rig
func NewRig(options ...RigOption) *Rig {
	r := &Rig{
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(r)
	}
	// Submissions beyond the queue size block until a worker frees a slot.
	if r.workers > 1 {
		r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	}
	return r
}

// Add appends a mount. Names must be unique.
//
// Parameters:
//   - m: the mount to add
//
// Returns:
//   - error: if a mount with the same name exists
func (r *Rig) Add(m *Mount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.mounts {
		if existing.name == m.name {
			return fmt.Errorf("rig: mount %q already exists", m.name)
		}
	}
	r.mounts = append(r.mounts, m)
	return nil
}

// Remove deletes the named mount.
//
// Parameters:
//   - name: the mount name
//
// Returns:
//   - bool: true if a mount was removed
func (r *Rig) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.mounts {
		if m.name == name {
			r.mounts = append(r.mounts[:i], r.mounts[i+1:]...)
			return true
		}
	}
	return false
}

// Mount returns the named mount.
//
// Parameters:
//   - name: the mount name
//
// Returns:
//   - *Mount: the mount, nil if absent
//   - bool: whether the mount exists
func (r *Rig) Mount(name string) (*Mount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mounts {
		if m.name == name {
			return m, true
		}
	}
	return nil, false
}

// Mounts returns a copy of the mount list in insertion order.
func (r *Rig) Mounts() []*Mount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Mount(nil), r.mounts...)
}

// Step advances every mount by dt seconds against caster. Mounts run in parallel on the
// worker pool when there is more than one; Step returns after all of them finished.
//
// Parameters:
//   - dt: frame time in seconds
//   - caster: the collision world, may be nil
func (r *Rig) Step(dt float32, caster camera.RayCaster) {
	start := time.Now()

	r.mu.Lock()
	mounts := append([]*Mount(nil), r.mounts...)
	pool := r.pool
	if r.closed {
		pool = nil
	}
	r.mu.Unlock()

	if pool == nil || len(mounts) < 2 {
		for _, m := range mounts {
			m.step(dt, caster)
		}
	} else {
		// A WaitGroup is the per-frame barrier; pool.Wait() only returns once workers idle out.
		var wg sync.WaitGroup
		for i, m := range mounts {
			wg.Add(1)
			pool.SubmitTask(worker.Task{
				ID: i,
				Do: func() (any, error) {
					defer wg.Done()
					m.step(dt, caster)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	if r.profiler != nil {
		r.profiler.Observe(time.Since(start), len(mounts))
	}
}

// Run calls Step every tick until ctx is done. dt is the measured time between ticks.
//
// Parameters:
//   - ctx: cancels the loop
//   - tick: time between steps
//   - caster: the collision world, may be nil
//
// Returns:
//   - error: ctx.Err() once the loop stops
func (r *Rig) Run(ctx context.Context, tick time.Duration, caster camera.RayCaster) error {
	if tick <= 0 {
		return fmt.Errorf("rig: tick %v must be positive", tick)
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.Step(float32(now.Sub(last).Seconds()), caster)
			last = now
		}
	}
}

// ApplyConfig installs cfg on every mounted controller. Controllers that reject it keep
// their previous configuration.
//
// Parameters:
//   - cfg: the new tuning
//
// Returns:
//   - error: the first rejection, if any
func (r *Rig) ApplyConfig(cfg camera.Config) error {
	var first error
	for _, m := range r.Mounts() {
		m.mu.Lock()
		err := m.controller.ApplyConfig(cfg)
		m.mu.Unlock()
		if err != nil && first == nil {
			first = fmt.Errorf("rig: mount %q: %w", m.name, err)
		}
	}
	return first
}

// WatchConfig applies every reload from w until ctx is done or w is closed. Failed reloads
// are logged and leave the current configuration in place.
//
// Parameters:
//   - ctx: cancels the loop
//   - w: the config watcher
func (r *Rig) WatchConfig(ctx context.Context, w *config.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case reload, ok := <-w.Reloads:
			if !ok {
				return
			}
			if reload.Err != nil {
				log.Printf("[Config] keeping previous camera config, reload of %s failed: %v", reload.Path, reload.Err)
				continue
			}
			if err := r.ApplyConfig(reload.Config); err != nil {
				log.Printf("[Config] %v", err)
				continue
			}
			log.Printf("[Config] applied %s", reload.Path)
		}
	}
}

// Close stops the worker pool. Later Steps run sequentially.
func (r *Rig) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.pool != nil {
		r.pool.Stop()
	}
}
