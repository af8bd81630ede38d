package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

const createdAt = int64(1760000000000)

// recordBotRun drives a live world with the autopilot for up to ticks steps.
func recordBotRun(t *testing.T, opts core.Options, ticks int) core.Replay {
	t.Helper()
	w := newWorld(t, opts)
	bot := core.NewAutopilot(3)
	for tick := 0; tick < ticks && w.Alive(); tick++ {
		bot.Drive(w)
		w.Step(dt)
	}
	return w.Replay(createdAt)
}

// recordScriptedRun drives a live world with a fixed turn pattern until death.
func recordScriptedRun(t *testing.T, opts core.Options) core.Replay {
	t.Helper()
	w := newWorld(t, opts)
	for tick := 0; tick < maxTicks && w.Alive(); tick++ {
		scripted(w, tick)
		w.Step(dt)
	}
	require.False(t, w.Alive(), "scripted run should end in death")
	return w.Replay(createdAt)
}

func TestReplayFidelity(t *testing.T) {
	for _, seed := range []uint32{1, 42, 777, 0xDEADBEEF} {
		opts := core.DefaultOptions(seed)
		recorded := recordScriptedRun(t, opts)
		require.NotEmpty(t, recorded.Inputs)

		res, err := core.Verify(recorded, core.DefaultOptions(0), dt, maxTicks)
		require.NoError(t, err)
		assert.True(t, res.Died, "seed %d", seed)
		assert.True(t, res.OK(), "seed %d: %v", seed, res.Mismatches)
		assert.Equal(t, recorded.Score, res.Score)
		assert.Equal(t, recorded.Distance, res.Distance)
		assert.Equal(t, recorded.BestCombo, res.BestCombo)
	}
}

func TestReplayFidelityThroughEncoding(t *testing.T) {
	for _, mode := range core.Modes {
		opts := core.DefaultOptions(31337)
		opts.Mode = mode
		recorded := recordBotRun(t, opts, 2400)

		data, err := recorded.Encode()
		require.NoError(t, err)
		decoded, err := core.DecodeReplay(data)
		require.NoError(t, err)
		require.Equal(t, recorded, decoded)

		res, err := core.Verify(decoded, core.DefaultOptions(0), dt, maxTicks)
		require.NoError(t, err)
		assert.True(t, res.OK(), "mode %v: %v", mode, res.Mismatches)
	}
}

func TestPlaybackMatchesLiveDigest(t *testing.T) {
	opts := core.DefaultOptions(99)
	live := newWorld(t, opts)
	digests := make([][32]byte, 0)
	for tick := 0; tick < 1500 && live.Alive(); tick++ {
		scripted(live, tick)
		live.Step(dt)
		digests = append(digests, live.Digest())
	}

	opts.Playback = true
	opts.ReplayInputs = live.Inputs()
	replayed := newWorld(t, opts)
	for i := range digests {
		replayed.Step(dt)
		require.Equal(t, digests[i], replayed.Digest(), "diverged at tick %d", i)
	}
	assert.Empty(t, replayed.Inputs(), "playback never records")
}

func TestVerifyDetectsTampering(t *testing.T) {
	recorded := recordScriptedRun(t, core.DefaultOptions(42))
	recorded.Score += 1000
	recorded.BestCombo += 3

	res, err := core.Verify(recorded, core.DefaultOptions(0), dt, maxTicks)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Len(t, res.Mismatches, 2)
}

func TestVerifyRejectsBadStep(t *testing.T) {
	_, err := core.Verify(core.Replay{V: 1}, core.DefaultOptions(0), 0, 10)
	assert.Error(t, err)
}

func TestReplayJSONFieldNames(t *testing.T) {
	r := core.Replay{V: 1, Seed: 7, Mode: core.ModeDaily, CreatedAt: createdAt, Score: 12, Distance: 3.5, BestCombo: 2,
		Inputs: []core.Input{{T: 0.5, Dir: 1}}}
	data, err := r.Encode()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"v", "seed", "mode", "createdAt", "score", "distance", "bestCombo", "inputs"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "daily", fields["mode"])

	empty, err := core.Replay{V: 1}.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"inputs":[]`)
}

func TestDecodeReplayRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"missing version", `{"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"wrong version", `{"v":2,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"seed negative", `{"v":1,"seed":-1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"seed fractional", `{"v":1,"seed":1.5,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"seed too large", `{"v":1,"seed":4294967296,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"seed string", `{"v":1,"seed":"1","mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"unknown mode", `{"v":1,"seed":1,"mode":"zen","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"numeric mode", `{"v":1,"seed":1,"mode":3,"createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"negative distance", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":-1,"bestCombo":0,"inputs":[]}`},
		{"negative score", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":-4,"distance":0,"bestCombo":0,"inputs":[]}`},
		{"dir zero", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"t":0.1,"dir":0}]}`},
		{"dir two", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"t":0.1,"dir":2}]}`},
		{"dir missing", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"t":0.1}]}`},
		{"t missing", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"dir":1}]}`},
		{"t negative", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"t":-0.1,"dir":1}]}`},
		{"t decreasing", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"t":0.5,"dir":1},{"t":0.2,"dir":1}]}`},
		{"t string", `{"v":1,"seed":1,"mode":"classic","createdAt":0,"score":0,"distance":0,"bestCombo":0,"inputs":[{"t":"soon","dir":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := core.DecodeReplay([]byte(tt.data))
			require.ErrorIs(t, err, core.ErrInvalidReplay)
			assert.Equal(t, core.Replay{}, r, "no partial value")
		})
	}
}

func TestDecodeReplayAcceptsValid(t *testing.T) {
	data := `{"v":1,"seed":4294967295,"mode":"hardcore","createdAt":1760000000000,"score":10,"distance":12.25,"bestCombo":1,
		"inputs":[{"t":0,"dir":1},{"t":0,"dir":-1},{"t":1.23456,"dir":1}]}`
	r, err := core.DecodeReplay([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), r.Seed)
	assert.Equal(t, core.ModeHardcore, r.Mode)
	assert.Equal(t, 12.25, r.Distance)
	assert.Len(t, r.Inputs, 3)
	assert.Equal(t, 1.23456, r.Inputs[2].T)
}

func TestShareCodeRoundTrip(t *testing.T) {
	recorded := recordBotRun(t, core.DefaultOptions(8), 600)
	code, err := core.EncodeShareCode(recorded)
	require.NoError(t, err)
	assert.NotContains(t, code, "+")
	assert.NotContains(t, code, "/")

	decoded, err := core.DecodeShareCode(code)
	require.NoError(t, err)
	assert.Equal(t, recorded, decoded)

	_, err = core.DecodeShareCode("!!not base64!!")
	assert.ErrorIs(t, err, core.ErrInvalidReplay)
}

func TestModeParse(t *testing.T) {
	for _, m := range core.Modes {
		parsed, err := core.ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := core.ParseMode("zen")
	assert.Error(t, err)
	assert.False(t, core.Mode(7).Valid())
}
