package physics

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestStaticWorldCastRay(t *testing.T) {
	w := NewStaticWorld()
	w.AddBox(mgl32.Vec3{3, -1, -1}, mgl32.Vec3{4, 1, 1})
	w.AddSphere(mgl32.Vec3{0, 0, 6}, 1)
	w.AddBox(mgl32.Vec3{-3, -1, -1}, mgl32.Vec3{-2, 1, 1}, AsSensor())
	w.AddBox(mgl32.Vec3{-1, 2, -1}, mgl32.Vec3{1, 3, 1}, AsDynamic())

	cases := []struct {
		name    string
		origin  mgl32.Vec3
		dir     mgl32.Vec3
		max     float32
		wantHit bool
		wantToi float32
	}{
		{"box_ahead", mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 10, true, 3},
		{"box_beyond_max", mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 2.5, false, 0},
		{"box_exactly_at_max", mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 3, true, 3},
		{"unnormalized_direction", mgl32.Vec3{}, mgl32.Vec3{5, 0, 0}, 10, true, 3},
		{"sphere_ahead", mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 10, true, 5},
		{"sensor_ignored", mgl32.Vec3{}, mgl32.Vec3{-1, 0, 0}, 10, false, 0},
		{"dynamic_ignored", mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 10, false, 0},
		{"pointing_away", mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, 10, false, 0},
		{"inside_box_is_solid", mgl32.Vec3{3.5, 0, 0}, mgl32.Vec3{1, 0, 0}, 10, true, 0},
		{"inside_sphere_is_solid", mgl32.Vec3{0, 0, 6}, mgl32.Vec3{1, 0, 0}, 10, true, 0},
		{"zero_direction", mgl32.Vec3{}, mgl32.Vec3{}, 10, false, 0},
		{"parallel_miss", mgl32.Vec3{0, 5, 0}, mgl32.Vec3{1, 0, 0}, 10, false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toi, hit := w.CastRay(c.origin, c.dir, c.max)
			if hit != c.wantHit {
				t.Fatalf("hit = %v, want %v (toi %v)", hit, c.wantHit, toi)
			}
			if hit && !approx(toi, c.wantToi) {
				t.Fatalf("toi = %v, want %v", toi, c.wantToi)
			}
		})
	}
}

func TestStaticWorldNearestHitWins(t *testing.T) {
	w := NewStaticWorld(WithColliders(
		Collider{Kind: ShapeBox, Min: mgl32.Vec3{8, -1, -1}, Max: mgl32.Vec3{9, 1, 1}},
		Collider{Kind: ShapeSphere, Center: mgl32.Vec3{4, 0, 0}, Radius: 0.5},
	))

	toi, hit := w.CastRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 20)
	if !hit || !approx(toi, 3.5) {
		t.Fatalf("got (%v, %v), want (3.5, true)", toi, hit)
	}
}

func TestStaticWorldRemove(t *testing.T) {
	w := NewStaticWorld()
	id := w.AddBox(mgl32.Vec3{1, -1, -1}, mgl32.Vec3{2, 1, 1})
	if w.Len() != 1 {
		t.Fatalf("Len = %d, want 1", w.Len())
	}
	if !w.Remove(id) {
		t.Fatalf("Remove should report an existing collider")
	}
	if w.Remove(id) {
		t.Fatalf("second Remove should report false")
	}
	if _, hit := w.CastRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 10); hit {
		t.Fatalf("removed collider still blocks rays")
	}
}

func TestStaticWorldConcurrentQueries(t *testing.T) {
	w := NewStaticWorld()
	w.AddBox(mgl32.Vec3{3, -1, -1}, mgl32.Vec3{4, 1, 1})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if toi, hit := w.CastRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 10); !hit || !approx(toi, 3) {
				t.Errorf("got (%v, %v)", toi, hit)
			}
		}()
	}
	wg.Wait()
}

func TestPlanarWorldCastRay(t *testing.T) {
	w := NewPlanarWorld()
	w.AddWall(mgl32.Vec2{4, -10}, mgl32.Vec2{4, 10}, 0.1)
	w.AddBlock(-6, -1, -5, 1)
	w.AddSensorBlock(-1, 2, 1, 3)

	cases := []struct {
		name    string
		origin  mgl32.Vec3
		dir     mgl32.Vec3
		max     float32
		wantHit bool
		wantToi float32
	}{
		{"wall_ahead", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 10, true, 3.9},
		{"wall_height_ignored", mgl32.Vec3{0, 50, 0}, mgl32.Vec3{1, 0, 0}, 10, true, 3.9},
		// A 45 degree ray needs √2 units of length per unit of horizontal travel.
		{"diagonal_ray_in_3d_units", mgl32.Vec3{}, mgl32.Vec3{1, 1, 0}, 10, true, 3.9 * float32(math.Sqrt2)},
		{"block_ahead", mgl32.Vec3{}, mgl32.Vec3{-1, 0, 0}, 10, true, 5},
		{"beyond_max", mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 3, false, 0},
		{"sensor_ignored", mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 10, false, 0},
		{"vertical_never_hits", mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 10, false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toi, hit := w.CastRay(c.origin, c.dir, c.max)
			if hit != c.wantHit {
				t.Fatalf("hit = %v, want %v (toi %v)", hit, c.wantHit, toi)
			}
			if hit && math.Abs(float64(toi-c.wantToi)) > 1e-3 {
				t.Fatalf("toi = %v, want %v", toi, c.wantToi)
			}
		})
	}
}
