package rig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/config"
	"github.com/Carmen-Shannon/oxy-orbit/engine/input"
	"github.com/Carmen-Shannon/oxy-orbit/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

func corridor() *physics.StaticWorld {
	w := physics.NewStaticWorld()
	w.AddBox(mgl32.Vec3{-10, -1, 2.5}, mgl32.Vec3{10, 5, 3})
	w.AddBox(mgl32.Vec3{3, -1, -10}, mgl32.Vec3{3.5, 5, 10})
	return w
}

func newMounts(n int) []*Mount {
	mounts := make([]*Mount, 0, n)
	for i := 0; i < n; i++ {
		target := mgl32.Vec3{float32(i) * 0.1, 0, 0}
		oc := camera.NewOrbitCamera(camera.WithEye(common.TransformFromXYZ(0, 1, 5)), camera.WithTarget(target))
		frames := make([]input.CameraActions, 40)
		for f := range frames {
			frames[f] = input.NoActions().WithMovement(float32(i+1), 0.5).WithZoom(-0.2)
		}
		mounts = append(mounts, NewMount(
			string(rune('a'+i)),
			oc,
			WithInput(input.NewScript(frames...)),
			WithTargets(FixedTarget{Primary: target}),
		))
	}
	return mounts
}

func TestParallelStepMatchesSequential(t *testing.T) {
	world := corridor()

	parallel := NewRig(WithWorkers(4), WithMounts(newMounts(6)...))
	defer parallel.Close()
	sequential := NewRig(WithWorkers(1), WithMounts(newMounts(6)...))
	defer sequential.Close()

	for i := 0; i < 60; i++ {
		parallel.Step(0.016, world)
		sequential.Step(0.016, world)
	}

	pm, sm := parallel.Mounts(), sequential.Mounts()
	for i := range pm {
		if pm[i].Rendered() != sm[i].Rendered() {
			t.Fatalf("mount %s: parallel %+v, sequential %+v", pm[i].Name(), pm[i].Rendered(), sm[i].Rendered())
		}
		if pm[i].Controller().Eye() != sm[i].Controller().Eye() {
			t.Fatalf("mount %s: eyes diverged", pm[i].Name())
		}
	}
}

func TestStepAfterCloseRunsSequentially(t *testing.T) {
	world := corridor()

	closed := NewRig(WithWorkers(4), WithMounts(newMounts(3)...))
	closed.Close()
	closed.Close()
	reference := NewRig(WithWorkers(1), WithMounts(newMounts(3)...))

	for i := 0; i < 10; i++ {
		closed.Step(0.016, world)
		reference.Step(0.016, world)
	}

	cm, rm := closed.Mounts(), reference.Mounts()
	for i := range cm {
		if cm[i].Rendered() != rm[i].Rendered() {
			t.Fatalf("mount %s not stepped after Close", cm[i].Name())
		}
	}
}

func TestRigMountBookkeeping(t *testing.T) {
	r := NewRig(WithWorkers(1))
	defer r.Close()

	a := NewMount("a", camera.NewOrbitCamera())
	if err := r.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(NewMount("a", camera.NewOrbitCamera())); err == nil {
		t.Fatalf("duplicate name accepted")
	}
	if err := r.Add(NewMount("b", camera.NewOrbitCamera())); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if m, ok := r.Mount("a"); !ok || m != a {
		t.Fatalf("Mount(a) = %v, %v", m, ok)
	}
	if !r.Remove("a") {
		t.Fatalf("Remove(a) reported false")
	}
	if r.Remove("a") {
		t.Fatalf("second Remove(a) reported true")
	}
	if _, ok := r.Mount("a"); ok {
		t.Fatalf("removed mount still present")
	}
	if got := len(r.Mounts()); got != 1 {
		t.Fatalf("len(Mounts) = %d, want 1", got)
	}
}

func TestMountUpdatesView(t *testing.T) {
	view := camera.NewCamera()
	m := NewMount("main", camera.NewOrbitCamera(camera.WithEye(common.TransformFromXYZ(0, 0, 5))),
		WithView(view),
		WithTargets(FixedTarget{}),
	)
	r := NewRig(WithWorkers(1), WithMounts(m))
	defer r.Close()

	r.Step(0.016, nil)
	if view.Transform() != m.Rendered() {
		t.Fatalf("view %+v, rendered %+v", view.Transform(), m.Rendered())
	}
}

func TestMountSecondaryTargetFromProvider(t *testing.T) {
	secondary := true
	m := NewMount("main", camera.NewOrbitCamera(camera.WithEye(common.TransformFromXYZ(0, 0, 5))),
		WithTargets(TargetFunc(func() (mgl32.Vec3, mgl32.Vec3, bool) {
			return mgl32.Vec3{}, mgl32.Vec3{4, 0, 0}, secondary
		})),
	)
	m.step(0.016, nil)
	if _, ok := m.Controller().SecondaryTarget(); !ok {
		t.Fatalf("secondary target not set")
	}

	secondary = false
	m.step(0.016, nil)
	if _, ok := m.Controller().SecondaryTarget(); ok {
		t.Fatalf("secondary target not cleared")
	}
}

func TestRetargetCarriesEyeOffset(t *testing.T) {
	m := NewMount("main", camera.NewOrbitCamera(camera.WithEye(common.TransformFromXYZ(0, 0, 5))),
		WithTargets(FixedTarget{}),
	)
	for i := 0; i < 20; i++ {
		m.step(0.016, nil)
	}

	newTarget := mgl32.Vec3{100, 0, 0}
	m.Retarget(FixedTarget{Primary: newTarget})
	if got := m.Controller().Target(); got != newTarget {
		t.Fatalf("target = %v, want %v", got, newTarget)
	}
	if got := m.Controller().Snapshot().LastTarget; got != (mgl32.Vec3{}) {
		t.Fatalf("retarget rewrote last target: %v", got)
	}

	m.step(0.016, nil)
	eye := m.Controller().Eye().Translation
	want := mgl32.Vec3{100, 0, 5}
	if eye.Sub(want).Len() > 1e-3 {
		t.Fatalf("eye after retarget = %v, want %v", eye, want)
	}
	if fwd := m.Controller().Forward(); fwd.Sub(mgl32.Vec3{0, 0, -1}).Len() > 1e-3 {
		t.Fatalf("forward after retarget = %v, want -Z", fwd)
	}
}

func TestMountLeavesControllerTargetAlone(t *testing.T) {
	primary := mgl32.Vec3{3, 0, 0}
	oc := camera.NewOrbitCamera(
		camera.WithEye(common.TransformFromXYZ(3, 0, 5)),
		camera.WithTarget(primary),
	)
	m := NewMount("main", oc, WithTargets(FixedTarget{Primary: primary}))
	if got := oc.Snapshot().LastTarget; got != primary {
		t.Fatalf("last target = %v, want %v", got, primary)
	}

	m.step(0.016, nil)
	if got := oc.Eye().Translation; got.Sub(mgl32.Vec3{3, 0, 5}).Len() > 1e-3 {
		t.Fatalf("eye drifted on first step: %v", got)
	}
}

func TestRigApplyConfig(t *testing.T) {
	r := NewRig(WithWorkers(1), WithMounts(newMounts(3)...))
	defer r.Close()

	cfg := camera.DefaultConfig()
	cfg.MaxDistance = 20
	if err := r.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	for _, m := range r.Mounts() {
		if got := m.Controller().Config().MaxDistance; got != 20 {
			t.Fatalf("mount %s max distance = %v", m.Name(), got)
		}
	}

	bad := cfg
	bad.MinDistance = 30
	if err := r.ApplyConfig(bad); err == nil {
		t.Fatalf("invalid config accepted")
	}
	for _, m := range r.Mounts() {
		if got := m.Controller().Config().MinDistance; got == 30 {
			t.Fatalf("mount %s took an invalid config", m.Name())
		}
	}
}

func TestRunStepsUntilCancelled(t *testing.T) {
	var polls atomic.Int32
	m := NewMount("main", camera.NewOrbitCamera(), WithTargets(TargetFunc(func() (mgl32.Vec3, mgl32.Vec3, bool) {
		polls.Add(1)
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	})))
	r := NewRig(WithWorkers(1), WithMounts(m))
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, 5*time.Millisecond, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want deadline exceeded", err)
	}
	if polls.Load() < 1 {
		t.Fatalf("Run never stepped")
	}
}

func TestRunRejectsNonPositiveTick(t *testing.T) {
	r := NewRig(WithWorkers(1))
	defer r.Close()
	if err := r.Run(context.Background(), 0, nil); err == nil {
		t.Fatalf("expected error for zero tick")
	}
}

func TestWatchConfigAppliesReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.yaml")
	if err := os.WriteFile(path, []byte("max_distance: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := config.NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	m := NewMount("main", camera.NewOrbitCamera())
	r := NewRig(WithWorkers(1), WithMounts(m))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.WatchConfig(ctx, w)

	if err := os.WriteFile(path, []byte("max_distance: 25\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		got := m.controller.Config().MaxDistance
		m.mu.Unlock()
		if got == 25 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("reload never applied")
}
