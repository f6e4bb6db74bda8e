package physics

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
)

// sensorCategory is the collision category given to sensor shapes; camera queries mask it out.
const sensorCategory uint = 1 << 31

// cameraQueryFilter matches every category except sensors.
var cameraQueryFilter = cp.ShapeFilter{
	Group:      cp.NO_GROUP,
	Categories: cp.ALL_CATEGORIES,
	Mask:       cp.ALL_CATEGORIES &^ sensorCategory,
}

// PlanarWorld answers camera ray casts for levels authored as 2D floor plans: every shape
// lives on the XZ plane of a Chipmunk space and is treated as an infinitely tall wall. Rays
// are projected onto that plane before querying, so a purely vertical ray never hits.
//
// Chipmunk spaces are not safe for concurrent queries, so CastRay serializes on a mutex.
type PlanarWorld struct {
	mu    sync.Mutex
	space *cp.Space
}

// NewPlanarWorld creates an empty planar world.
//
// Returns:
//   - *PlanarWorld: the new world
func NewPlanarWorld() *PlanarWorld {
	return &PlanarWorld{space: cp.NewSpace()}
}

// AddWall adds a wall segment from a to b (X, Z coordinates) with the given thickness.
//
// Parameters:
//   - a, b: segment endpoints on the XZ plane
//   - thickness: segment radius
func (w *PlanarWorld) AddWall(a, b mgl32.Vec2, thickness float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	shape := cp.NewSegment(w.space.StaticBody, toCP(a), toCP(b), float64(thickness))
	w.space.AddShape(shape)
}

// AddBlock adds a solid rectangular block spanning [minX, maxX] x [minZ, maxZ].
//
// Parameters:
//   - minX, minZ: lower corner on the XZ plane
//   - maxX, maxZ: upper corner on the XZ plane
func (w *PlanarWorld) AddBlock(minX, minZ, maxX, maxZ float32) {
	w.addBox(minX, minZ, maxX, maxZ, false)
}

// AddSensorBlock adds a sensor region. Sensors never block camera rays.
//
// Parameters:
//   - minX, minZ: lower corner on the XZ plane
//   - maxX, maxZ: upper corner on the XZ plane
func (w *PlanarWorld) AddSensorBlock(minX, minZ, maxX, maxZ float32) {
	w.addBox(minX, minZ, maxX, maxZ, true)
}

func (w *PlanarWorld) addBox(minX, minZ, maxX, maxZ float32, sensor bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	bb := cp.BB{
		L: float64(min(minX, maxX)),
		B: float64(min(minZ, maxZ)),
		R: float64(max(minX, maxX)),
		T: float64(max(minZ, maxZ)),
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	if sensor {
		shape.SetSensor(true)
		shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: sensorCategory, Mask: cp.ALL_CATEGORIES})
	}
	w.space.AddShape(shape)
}

// CastRay implements camera.RayCaster over the projected floor plan.
//
// Parameters:
//   - origin: world-space ray origin
//   - direction: ray direction (normalized internally)
//   - maxDistance: maximum ray length
//
// Returns:
//   - float32: distance along the 3D ray to the nearest wall
//   - bool: false if nothing was hit within maxDistance
func (w *PlanarWorld) CastRay(origin, direction mgl32.Vec3, maxDistance float32) (float32, bool) {
	dir, ok := common.TryNormalize(direction)
	if !ok || !(maxDistance > 0) {
		return 0, false
	}
	// Horizontal extent of the ray; the 3D ray parameter maps linearly onto the 2D segment.
	if math.Abs(float64(dir[0]))+math.Abs(float64(dir[2])) < 1e-6 {
		return 0, false
	}

	start := cp.Vector{X: float64(origin[0]), Y: float64(origin[2])}
	end := cp.Vector{
		X: float64(origin[0] + dir[0]*maxDistance),
		Y: float64(origin[2] + dir[2]*maxDistance),
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	info := w.space.SegmentQueryFirst(start, end, 0, cameraQueryFilter)
	if info.Shape == nil || info.Shape.Sensor() {
		return 0, false
	}
	return float32(info.Alpha) * maxDistance, true
}

func toCP(v mgl32.Vec2) cp.Vector {
	return cp.Vector{X: float64(v[0]), Y: float64(v[1])}
}
