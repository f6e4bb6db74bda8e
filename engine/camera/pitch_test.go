package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

func TestPitchLimitsClampPitch(t *testing.T) {
	limits := DefaultPitchLimits()
	lo := limits.MinAngleFromUp
	hi := float32(math.Pi) - limits.MinAngleFromDown
	horizontal := mgl32.Vec3{0, 0, -1}
	nearlyUp, _ := common.TryNormalize(mgl32.Vec3{0, 1, -0.1})
	nearlyUpAngle := common.AngleBetween(nearlyUp, common.AxisY)

	cases := []struct {
		name    string
		forward mgl32.Vec3
		up      mgl32.Vec3
		angle   float32
		want    float32
	}{
		{"inside_range_passes_through", horizontal, common.AxisY, 0.1, 0.1},
		{"negative_inside_range_passes_through", horizontal, common.AxisY, -0.1, -0.1},
		{"clamped_at_up_limit", horizontal, common.AxisY, 2, math.Pi/2 - lo},
		{"clamped_at_down_limit", horizontal, common.AxisY, -3, math.Pi/2 - hi},
		{"beyond_up_limit_cannot_go_further", nearlyUp, common.AxisY, 0.05, 0},
		{"beyond_up_limit_may_come_back", nearlyUp, common.AxisY, -0.05, -0.05},
		{"beyond_up_limit_may_overshoot_back_into_range", nearlyUp, common.AxisY, -1, -1},
		{"beyond_up_limit_stops_at_far_limit", nearlyUp, common.AxisY, -10, nearlyUpAngle - hi},
		{"nan_angle_is_ignored", horizontal, common.AxisY, float32(math.NaN()), 0},
		{"zero_up_is_ignored", horizontal, mgl32.Vec3{}, 0.3, 0},
		{"zero_forward_is_ignored", mgl32.Vec3{}, common.AxisY, 0.3, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := limits.ClampPitch(c.up, c.forward, c.angle)
			if math.Abs(float64(got-c.want)) > 1e-5 {
				t.Fatalf("ClampPitch = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPitchLimitsValidate(t *testing.T) {
	cases := []struct {
		name    string
		limits  PitchLimits
		wantErr bool
	}{
		{"default", DefaultPitchLimits(), false},
		{"zero", PitchLimits{}, false},
		{"negative", PitchLimits{MinAngleFromUp: -0.1}, true},
		{"no_range_left", PitchLimits{MinAngleFromUp: 2, MinAngleFromDown: 2}, true},
		{"nan", PitchLimits{MinAngleFromUp: float32(math.NaN())}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.limits.Validate(); (err != nil) != c.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

const clampToHalfRadian = `
lo := 0.5
limited := angle_to_up - angle
if limited < lo {
	limited = lo
}
result = angle_to_up - limited
`

func TestScriptPitchPolicy(t *testing.T) {
	horizontal := mgl32.Vec3{0, 0, -1}

	loose := PitchLimits{MinAngleFromUp: 0.1, MinAngleFromDown: 0.1}
	policy, err := NewScriptPitchPolicy([]byte(clampToHalfRadian), loose)
	if err != nil {
		t.Fatalf("NewScriptPitchPolicy: %v", err)
	}

	if got := policy.ClampPitch(common.AxisY, horizontal, 0.2); math.Abs(float64(got-0.2)) > 1e-5 {
		t.Fatalf("small pitch = %v, want 0.2", got)
	}
	if got, want := policy.ClampPitch(common.AxisY, horizontal, 2), float32(math.Pi/2-0.5); math.Abs(float64(got-want)) > 1e-5 {
		t.Fatalf("large pitch = %v, want %v", got, want)
	}
	// The script runs again with fresh globals on every call.
	if got := policy.ClampPitch(common.AxisY, horizontal, -0.3); math.Abs(float64(got+0.3)) > 1e-5 {
		t.Fatalf("repeat call = %v, want -0.3", got)
	}
}

func TestScriptPitchPolicyBoundedByFallback(t *testing.T) {
	horizontal := mgl32.Vec3{0, 0, -1}
	limits := DefaultPitchLimits()

	policy, err := NewScriptPitchPolicy([]byte(`result = angle`), nil)
	if err != nil {
		t.Fatalf("NewScriptPitchPolicy: %v", err)
	}

	cases := []struct {
		name  string
		angle float32
	}{
		{"past_up", 3},
		{"past_down", -3},
		{"within", 0.2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := policy.ClampPitch(common.AxisY, horizontal, c.angle)
			want := limits.ClampPitch(common.AxisY, horizontal, c.angle)
			if math.Abs(float64(got-want)) > 1e-5 {
				t.Fatalf("ClampPitch(%v) = %v, want %v", c.angle, got, want)
			}
			next := common.AngleBetween(horizontal, common.AxisY) - got
			if next < limits.MinAngleFromUp-1e-5 || next > math.Pi-limits.MinAngleFromDown+1e-5 {
				t.Fatalf("pitch left the limits: angle to up %v", next)
			}
		})
	}
}

func TestScriptPitchPolicyFallback(t *testing.T) {
	horizontal := mgl32.Vec3{0, 0, -1}
	fallback := PitchLimits{MinAngleFromUp: 1, MinAngleFromDown: 1}
	want := fallback.ClampPitch(common.AxisY, horizontal, 2)

	cases := []struct {
		name string
		src  string
	}{
		{"runtime_error", `result = angle_to_up()`},
		{"non_finite_result", `math := import("math"); result = math.inf(1)`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			policy, err := NewScriptPitchPolicy([]byte(c.src), fallback)
			if err != nil {
				t.Fatalf("NewScriptPitchPolicy: %v", err)
			}
			for i := 0; i < 2; i++ {
				if got := policy.ClampPitch(common.AxisY, horizontal, 2); math.Abs(float64(got-want)) > 1e-5 {
					t.Fatalf("call %d = %v, want fallback %v", i, got, want)
				}
			}
		})
	}
}

func TestScriptPitchPolicyCompileError(t *testing.T) {
	if _, err := NewScriptPitchPolicy([]byte(`result = (`), nil); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestOrbitCameraUsesScriptPolicy(t *testing.T) {
	policy, err := NewScriptPitchPolicy([]byte(`result = 0.0`), nil)
	if err != nil {
		t.Fatalf("NewScriptPitchPolicy: %v", err)
	}
	oc := newTestCamera(t, WithEye(common.TransformFromXYZ(0, 0, 5)), WithPitchPolicy(policy))

	for i := 0; i < 10; i++ {
		oc.UpdateTransform(0.016, input.NoActions().WithMovement(0, -50), nil, oc.Eye())
	}
	assertNearlyEq(t, oc.Eye().Translation, mgl32.Vec3{0, 0, 5})

	// A custom policy survives a config reload.
	if err := oc.ApplyConfig(DefaultConfig()); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if oc.pitch != PitchPolicy(policy) {
		t.Fatalf("custom pitch policy replaced by config reload")
	}
}
