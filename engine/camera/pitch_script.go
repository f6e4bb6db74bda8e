package camera

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
)

// ScriptPitchPolicy is a PitchPolicy whose clamp is written in tengo so designers can tune
// camera feel without rebuilding. Each call sets the globals
//
//	angle        requested pitch delta in radians
//	angle_to_up  current angle between forward and up, in radians
//	result       initialized to angle
//
// runs the script, and reads result back. Scripts must assign result with `=`.
// The "math" stdlib module is importable.
//
// The script's result is passed through the fallback policy, so a script can tighten the
// pitch range but never open it past the fallback's limits. If the script fails at runtime
// or yields a non-finite result, the fallback policy is used for that call and the failure
// is logged once.
type ScriptPitchPolicy struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
	fallback PitchPolicy
	warned   bool
}

var _ PitchPolicy = &ScriptPitchPolicy{}

// NewScriptPitchPolicy compiles src into a pitch policy.
//
// Parameters:
//   - src: tengo source that assigns result
//   - fallback: policy that bounds every result and is used alone when the script errors
//     (nil selects DefaultPitchLimits)
//
// Returns:
//   - *ScriptPitchPolicy: the compiled policy
//   - error: compilation error, if any
func NewScriptPitchPolicy(src []byte, fallback PitchPolicy) (*ScriptPitchPolicy, error) {
	if fallback == nil {
		fallback = DefaultPitchLimits()
	}

	script := tengo.NewScript(src)
	_ = script.Add("angle", 0.0)
	_ = script.Add("angle_to_up", 0.0)
	_ = script.Add("result", 0.0)
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("pitch script: compile: %w", err)
	}

	return &ScriptPitchPolicy{
		compiled: compiled,
		fallback: fallback,
	}, nil
}

// ClampPitch implements PitchPolicy.
func (p *ScriptPitchPolicy) ClampPitch(up, forward mgl32.Vec3, angle float32) float32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	result, err := p.run(common.AngleBetween(forward, up), angle)
	if err != nil {
		if !p.warned {
			log.Printf("[PitchScript] falling back to default pitch limits: %v", err)
			p.warned = true
		}
		return p.fallback.ClampPitch(up, forward, angle)
	}
	return p.fallback.ClampPitch(up, forward, result)
}

// run executes the script once. Caller must hold the mutex.
func (p *ScriptPitchPolicy) run(angleToUp, angle float32) (float32, error) {
	if err := p.compiled.Set("angle", float64(angle)); err != nil {
		return 0, err
	}
	if err := p.compiled.Set("angle_to_up", float64(angleToUp)); err != nil {
		return 0, err
	}
	if err := p.compiled.Set("result", float64(angle)); err != nil {
		return 0, err
	}
	if err := p.compiled.Run(); err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}

	result := float32(p.compiled.Get("result").Float())
	if !common.IsFinite(result) {
		return 0, fmt.Errorf("script produced non-finite result %v", result)
	}
	return result, nil
}
