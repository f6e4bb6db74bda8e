package camera

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraUpdateFromRenderedTransform(t *testing.T) {
	c := NewCamera(WithAspect(16.0/9.0), WithNear(0.1), WithFar(100))
	c.Update(common.TransformFromXYZ(0, 0, 5))

	origin := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !origin.ApproxEqualThreshold(mgl32.Vec4{0, 0, -5, 1}, 1e-5) {
		t.Fatalf("origin in view space = %v, want [0 0 -5 1]", origin)
	}

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	depth := clip[2] / clip[3]
	if depth <= 0 || depth >= 1 {
		t.Fatalf("ndc depth %v outside (0, 1)", depth)
	}

	if !c.ProjectionMatrix().Mul4(c.InverseProjectionMatrix()).ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Fatalf("inverse projection is not an inverse")
	}
}

func TestCameraInView(t *testing.T) {
	c := NewCamera(WithTransform(common.TransformFromXYZ(0, 0, 5)), WithFar(100))

	cases := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		want   bool
	}{
		{"target_ahead", mgl32.Vec3{}, 0, true},
		{"behind_camera", mgl32.Vec3{0, 0, 10}, 0, false},
		{"beyond_far_plane", mgl32.Vec3{0, 0, -200}, 0, false},
		{"far_off_to_the_side", mgl32.Vec3{50, 0, 0}, 1, false},
		{"sphere_straddling_edge", mgl32.Vec3{50, 0, 0}, 60, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.InView(tc.center, tc.radius); got != tc.want {
				t.Fatalf("InView(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.want)
			}
		})
	}
}

func TestCameraSettersRecompute(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()
	c.SetFov(1.2)
	if c.ProjectionMatrix() == before {
		t.Fatalf("SetFov did not recompute the projection")
	}
	if c.Fov() != 1.2 {
		t.Fatalf("Fov = %v", c.Fov())
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera()
	c.Update(common.TransformFromXYZ(1, 2, 3))
	u := c.Uniform()

	if u.Size() != GPUCameraUniformSize {
		t.Fatalf("Size = %d, want %d", u.Size(), GPUCameraUniformSize)
	}
	buf := u.Marshal()
	if len(buf) != GPUCameraUniformSize {
		t.Fatalf("len = %d", len(buf))
	}
	for i, want := range []float32{1, 2, 3, 0} {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[64+i*4:]))
		if got != want {
			t.Fatalf("float at offset %d = %v, want %v", 64+i*4, got, want)
		}
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])); got != u.ViewProj[0] {
		t.Fatalf("view_proj[0] = %v, want %v", got, u.ViewProj[0])
	}
	if !strings.Contains(GPUCameraUniformSource, "struct CameraUniform") {
		t.Fatalf("embedded WGSL missing CameraUniform")
	}
}
