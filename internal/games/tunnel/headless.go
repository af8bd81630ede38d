package tunnel

import (
	"fmt"

	"github.com/vovakirdan/tunnel-runner/internal/config"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

// SimResult is the outcome of a headless run.
type SimResult struct {
	Replay core.Replay
	Ticks  uint64
	Died   bool
	Digest [32]byte
}

// Simulate runs one autopilot-driven run without a screen.
// The run stops at death or after maxTicks steps. Turns the bot queues are
// recorded, so the returned replay verifies like a played one.
func Simulate(cfg config.TunnelConfig, mode core.Mode, seed uint32, lookahead int, maxTicks uint64, createdAtMs int64) (SimResult, error) {
	opts, err := BuildOptions(cfg, mode, seed)
	if err != nil {
		return SimResult{}, err
	}
	w, err := core.NewWorld(opts)
	if err != nil {
		return SimResult{}, err
	}

	pilot := core.NewAutopilot(lookahead)
	res := SimResult{}
	for res.Ticks < maxTicks {
		pilot.Drive(w)
		step := w.Step(core.FixedDT)
		res.Ticks++
		if step.Died {
			res.Died = true
			break
		}
	}

	res.Replay = w.Replay(createdAtMs)
	res.Digest = w.Digest()
	return res, nil
}

// VerifyReplay re-simulates a replay with the tuning cfg yields for its mode.
func VerifyReplay(cfg config.TunnelConfig, r core.Replay, maxTicks uint64) (core.VerifyResult, error) {
	opts, err := BuildOptions(cfg, r.Mode, r.Seed)
	if err != nil {
		return core.VerifyResult{}, fmt.Errorf("verify replay: %w", err)
	}
	return core.Verify(r, opts, core.FixedDT, maxTicks)
}
