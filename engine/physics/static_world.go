// package physics provides static collision worlds that answer the orbit camera's single
// ray query. They are deliberately small: no broad phase, no dynamics, just geometry.
package physics

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ColliderID identifies a collider inside a world.
type ColliderID uint64

// ShapeKind enumerates the collider shapes a StaticWorld supports.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

// Collider is one piece of collision geometry.
type Collider struct {
	ID   ColliderID
	Kind ShapeKind

	// Min and Max are the corners of an axis-aligned box (ShapeBox).
	Min, Max mgl32.Vec3

	// Center and Radius describe a sphere (ShapeSphere).
	Center mgl32.Vec3
	Radius float32

	// Sensor colliders report overlaps in a full physics engine but never block rays.
	Sensor bool

	// Dynamic colliders belong to moving bodies and are ignored by camera rays.
	Dynamic bool
}

// blocksCamera reports whether the collider participates in camera ray casts.
func (c *Collider) blocksCamera() bool {
	return !c.Sensor && !c.Dynamic
}

// ColliderOption is a functional option applied to a collider when it is added.
type ColliderOption func(*Collider)

// AsSensor marks a collider as a sensor.
func AsSensor() ColliderOption {
	return func(c *Collider) {
		c.Sensor = true
	}
}

// AsDynamic marks a collider as belonging to a dynamic body.
func AsDynamic() ColliderOption {
	return func(c *Collider) {
		c.Dynamic = true
	}
}

// StaticWorld is a flat list of boxes and spheres that answers solid ray casts against its
// static, non-sensor members. Safe for concurrent use; ray casts take a read lock so several
// cameras can query in parallel.
type StaticWorld struct {
	mu        sync.RWMutex
	colliders map[ColliderID]*Collider
	nextID    ColliderID
}

// StaticWorldOption is a functional option for configuring a StaticWorld.
type StaticWorldOption func(*StaticWorld)

// WithColliders pre-populates the world. IDs on the given colliders are reassigned.
//
// Parameters:
//   - colliders: the colliders to add
//
// Returns:
//   - StaticWorldOption: functional option to add colliders
func WithColliders(colliders ...Collider) StaticWorldOption {
	return func(w *StaticWorld) {
		for _, c := range colliders {
			w.insert(c)
		}
	}
}

// NewStaticWorld creates an empty world.
//
// Parameters:
//   - options: functional options to configure the world
//
// Returns:
//   - *StaticWorld: the new world
func NewStaticWorld(options ...StaticWorldOption) *StaticWorld {
	w := &StaticWorld{
		colliders: make(map[ColliderID]*Collider),
		nextID:    1,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

// AddBox adds an axis-aligned box. Corners may be given in any order.
//
// Parameters:
//   - a, b: opposite corners of the box
//   - options: collider options such as AsSensor
//
// Returns:
//   - ColliderID: the new collider's ID
func (w *StaticWorld) AddBox(a, b mgl32.Vec3, options ...ColliderOption) ColliderID {
	c := Collider{
		Kind: ShapeBox,
		Min:  mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max:  mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
	for _, option := range options {
		option(&c)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.insert(c)
}

// AddSphere adds a sphere.
//
// Parameters:
//   - center: sphere center
//   - radius: sphere radius (non-positive radii never hit)
//   - options: collider options such as AsSensor
//
// Returns:
//   - ColliderID: the new collider's ID
func (w *StaticWorld) AddSphere(center mgl32.Vec3, radius float32, options ...ColliderOption) ColliderID {
	c := Collider{
		Kind:   ShapeSphere,
		Center: center,
		Radius: radius,
	}
	for _, option := range options {
		option(&c)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.insert(c)
}

// Remove deletes a collider.
//
// Parameters:
//   - id: the collider to remove
//
// Returns:
//   - bool: true if the collider existed
func (w *StaticWorld) Remove(id ColliderID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.colliders[id]; !ok {
		return false
	}
	delete(w.colliders, id)
	return true
}

// Len returns the number of colliders, including sensors and dynamic ones.
func (w *StaticWorld) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.colliders)
}

// CastRay returns the distance to the nearest static, non-sensor collider along the ray.
// Colliders are solid: an origin inside one hits at distance 0. Satisfies camera.RayCaster.
//
// Parameters:
//   - origin: world-space ray origin
//   - direction: ray direction (normalized internally)
//   - maxDistance: maximum ray length
//
// Returns:
//   - float32: distance to the nearest hit
//   - bool: false if nothing was hit within maxDistance
func (w *StaticWorld) CastRay(origin, direction mgl32.Vec3, maxDistance float32) (float32, bool) {
	dir, ok := common.TryNormalize(direction)
	if !ok || !(maxDistance >= 0) {
		return 0, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	closest := maxDistance
	hit := false
	for _, c := range w.colliders {
		if !c.blocksCamera() {
			continue
		}
		var t float32
		var ok bool
		switch c.Kind {
		case ShapeBox:
			t, ok = rayBoxHit(origin, dir, c.Min, c.Max)
		case ShapeSphere:
			t, ok = raySphereHit(origin, dir, c.Center, c.Radius)
		}
		if ok && t <= closest {
			closest = t
			hit = true
		}
	}
	if !hit {
		return 0, false
	}
	return closest, true
}

// insert stores c under a fresh ID. Caller must hold the write lock (or be constructing).
func (w *StaticWorld) insert(c Collider) ColliderID {
	c.ID = w.nextID
	w.nextID++
	w.colliders[c.ID] = &c
	return c.ID
}

// rayBoxHit is the slab test for a unit-direction ray against an AABB. Returns the entry
// distance, or 0 if the origin is inside.
func rayBoxHit(origin, dir, bmin, bmax mgl32.Vec3) (float32, bool) {
	tmin := float32(0)
	tmax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			invD := 1.0 / dir[axis]
			t1 := (bmin[axis] - origin[axis]) * invD
			t2 := (bmax[axis] - origin[axis]) * invD
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			tmin = max(tmin, t1)
			tmax = min(tmax, t2)
		} else if origin[axis] < bmin[axis] || origin[axis] > bmax[axis] {
			return 0, false
		}
	}

	if tmax >= tmin {
		return tmin, true
	}
	return 0, false
}

// raySphereHit solves |origin + t*dir - center|² = r² for the smallest t >= 0, with dir of
// unit length. Returns 0 if the origin is inside.
func raySphereHit(origin, dir, center mgl32.Vec3, radius float32) (float32, bool) {
	if radius <= 0 {
		return 0, false
	}
	f := origin.Sub(center)
	c := f.Dot(f) - radius*radius
	if c <= 0 {
		return 0, true
	}

	b := f.Dot(dir)
	if b > 0 {
		// Outside and pointing away.
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - float32(math.Sqrt(float64(disc))), true
}
