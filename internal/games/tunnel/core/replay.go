package core

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ReplayVersion is the only replay format understood by DecodeReplay.
const ReplayVersion = 1

// ErrInvalidReplay is returned for any malformed or tampered replay payload.
var ErrInvalidReplay = errors.New("tunnel: not a valid replay")

// Input is one recorded turn: simulated time in seconds and direction.
type Input struct {
	T   float64 `json:"t"`
	Dir int     `json:"dir"`
}

// Replay is the persisted record of a run.
type Replay struct {
	V         int     `json:"v"`
	Seed      uint32  `json:"seed"`
	Mode      Mode    `json:"mode"`
	CreatedAt int64   `json:"createdAt"` // Unix milliseconds
	Score     int     `json:"score"`
	Distance  float64 `json:"distance"`
	BestCombo int     `json:"bestCombo"`
	Inputs    []Input `json:"inputs"`
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("tunnel: invalid mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// roundTime fixes a timestamp to 5 decimals, the precision stored in replays.
func roundTime(t float64) float64 {
	return math.Round(t*1e5) / 1e5
}

// Replay finalizes the run into a record. createdAt is supplied by the caller
// since the simulation never reads the clock.
func (w *World) Replay(createdAt int64) Replay {
	inputs := w.Inputs()
	if w.opts.Playback {
		inputs = append([]Input(nil), w.opts.ReplayInputs...)
	}
	return Replay{
		V:         ReplayVersion,
		Seed:      w.opts.Seed,
		Mode:      w.opts.Mode,
		CreatedAt: createdAt,
		Score:     w.Score(),
		Distance:  w.distance,
		BestCombo: w.bestCombo,
		Inputs:    inputs,
	}
}

// Encode serializes the replay as compact JSON.
func (r Replay) Encode() ([]byte, error) {
	if r.Inputs == nil {
		r.Inputs = []Input{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("tunnel: encode replay: %w", err)
	}
	return data, nil
}

// rawReplay mirrors Replay with raw values so every field can be checked.
type rawReplay struct {
	V         json.RawMessage `json:"v"`
	Seed      json.RawMessage `json:"seed"`
	Mode      *string         `json:"mode"`
	CreatedAt json.RawMessage `json:"createdAt"`
	Score     json.RawMessage `json:"score"`
	Distance  json.RawMessage `json:"distance"`
	BestCombo json.RawMessage `json:"bestCombo"`
	Inputs    []rawInput      `json:"inputs"`
}

type rawInput struct {
	T   json.RawMessage `json:"t"`
	Dir json.RawMessage `json:"dir"`
}

// DecodeReplay parses and validates a replay. Any failure wraps ErrInvalidReplay
// and no partial value is returned.
func DecodeReplay(data []byte) (Replay, error) {
	var raw rawReplay
	if err := json.Unmarshal(data, &raw); err != nil {
		return Replay{}, invalid("%v", err)
	}

	var r Replay

	v, err := intField("v", raw.V, 0, math.MaxInt32)
	if err != nil {
		return Replay{}, err
	}
	if v != ReplayVersion {
		return Replay{}, invalid("unsupported version %d", v)
	}
	r.V = int(v)

	seed, err := intField("seed", raw.Seed, 0, math.MaxUint32)
	if err != nil {
		return Replay{}, err
	}
	r.Seed = uint32(seed)

	if raw.Mode == nil {
		return Replay{}, invalid("missing mode")
	}
	if r.Mode, err = ParseMode(*raw.Mode); err != nil {
		return Replay{}, invalid("%v", err)
	}

	if r.CreatedAt, err = intField("createdAt", raw.CreatedAt, 0, math.MaxInt64); err != nil {
		return Replay{}, err
	}
	score, err := intField("score", raw.Score, 0, math.MaxInt32)
	if err != nil {
		return Replay{}, err
	}
	r.Score = int(score)

	if r.Distance, err = floatField("distance", raw.Distance); err != nil {
		return Replay{}, err
	}

	combo, err := intField("bestCombo", raw.BestCombo, 0, math.MaxInt32)
	if err != nil {
		return Replay{}, err
	}
	r.BestCombo = int(combo)

	r.Inputs = make([]Input, 0, len(raw.Inputs))
	last := 0.0
	for i, in := range raw.Inputs {
		name := "inputs[" + strconv.Itoa(i) + "]"
		t, err := floatField(name+".t", in.T)
		if err != nil {
			return Replay{}, err
		}
		if t < last {
			return Replay{}, invalid("%s.t %v goes back in time", name, t)
		}
		dir, err := intField(name+".dir", in.Dir, -1, 1)
		if err != nil {
			return Replay{}, err
		}
		if dir == 0 {
			return Replay{}, invalid("%s.dir must be -1 or +1", name)
		}
		last = t
		r.Inputs = append(r.Inputs, Input{T: t, Dir: int(dir)})
	}
	return r, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidReplay, fmt.Sprintf(format, args...))
}

// number returns the literal text of a JSON number, rejecting strings, null and
// other value types.
func number(name string, raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "", invalid("missing %s", name)
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return "", invalid("%s must be a number, got %s", name, s)
	}
	return s, nil
}

// intField requires an integral number within [lo, hi].
func intField(name string, raw json.RawMessage, lo, hi int64) (int64, error) {
	s, err := number(name, raw)
	if err != nil {
		return 0, err
	}
	if strings.ContainsAny(s, ".eE") {
		return 0, invalid("%s must be an integer, got %s", name, s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < lo || v > hi {
		return 0, invalid("%s out of range: %s", name, s)
	}
	return v, nil
}

// floatField requires a finite non-negative number.
func floatField(name string, raw json.RawMessage) (float64, error) {
	s, err := number(name, raw)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, invalid("%s is not a finite non-negative number: %s", name, s)
	}
	return v, nil
}

// EncodeShareCode returns the replay as URL-safe base64 text.
func EncodeShareCode(r Replay) (string, error) {
	data, err := r.Encode()
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeShareCode parses a share code produced by EncodeShareCode.
func DecodeShareCode(code string) (Replay, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return Replay{}, invalid("share code: %v", err)
	}
	return DecodeReplay(data)
}

// VerifyResult is the outcome of re-simulating a replay.
type VerifyResult struct {
	Ticks      uint64
	Died       bool
	Score      int
	Distance   float64
	BestCombo  int
	Mismatches []string
}

// OK reports whether the re-simulation matched the recorded statistics exactly.
func (v VerifyResult) OK() bool {
	return len(v.Mismatches) == 0
}

// Verify re-simulates a replay headlessly and compares the final statistics.
// opts supplies the tuning; its seed, mode and playback fields are overridden
// from the replay. Simulation stops at death, once every input is consumed and
// the recorded distance is reached, or after maxTicks.
func Verify(r Replay, opts Options, dt float64, maxTicks uint64) (VerifyResult, error) {
	if dt <= 0 {
		return VerifyResult{}, fmt.Errorf("tunnel: verify: fixed step must be positive")
	}
	opts.Seed = r.Seed
	opts.Mode = r.Mode
	opts.Playback = true
	opts.Preview = false
	opts.ReplayInputs = r.Inputs

	w, err := NewWorld(opts)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("tunnel: verify: %w", err)
	}

	res := VerifyResult{}
	for res.Ticks < maxTicks {
		step := w.Step(dt)
		res.Ticks++
		if step.Died {
			res.Died = true
			break
		}
		if w.ReplayDone() && w.Distance() >= r.Distance {
			break
		}
	}

	res.Score = w.Score()
	res.Distance = w.Distance()
	res.BestCombo = w.bestCombo
	if res.Score != r.Score {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("score: recorded %d, simulated %d", r.Score, res.Score))
	}
	if res.Distance != r.Distance {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("distance: recorded %v, simulated %v", r.Distance, res.Distance))
	}
	if res.BestCombo != r.BestCombo {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("bestCombo: recorded %d, simulated %d", r.BestCombo, res.BestCombo))
	}
	return res, nil
}
