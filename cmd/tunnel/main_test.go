package main

import (
	"os"
	"path/filepath"
	"testing"

	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

func TestModeArg(t *testing.T) {
	tests := []struct {
		args    []string
		mode    tunnelcore.Mode
		wantErr bool
	}{
		{nil, tunnelcore.ModeClassic, false},
		{[]string{"daily"}, tunnelcore.ModeDaily, false},
		{[]string{"tunnel_hardcore"}, tunnelcore.ModeHardcore, false},
		{[]string{"tunnel"}, tunnelcore.ModeClassic, false},
		{[]string{"endless"}, 0, true},
	}

	for _, tc := range tests {
		mode, err := modeArg(tc.args)
		if (err != nil) != tc.wantErr {
			t.Errorf("modeArg(%v) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && mode != tc.mode {
			t.Errorf("modeArg(%v) = %v, expected %v", tc.args, mode, tc.mode)
		}
	}
}

func TestDecodeSource(t *testing.T) {
	r := tunnelcore.Replay{
		V:        tunnelcore.ReplayVersion,
		Seed:     42,
		Mode:     tunnelcore.ModeDaily,
		Score:    120,
		Distance: 98.5,
		Inputs:   []tunnelcore.Input{{T: 1.25, Dir: 1}},
	}

	data, err := r.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := decodeSource(path)
	if err != nil {
		t.Fatalf("decodeSource(file) error = %v", err)
	}
	if fromFile.Seed != 42 || fromFile.Mode != tunnelcore.ModeDaily {
		t.Errorf("decodeSource(file) = %+v", fromFile)
	}

	code, err := tunnelcore.EncodeShareCode(r)
	if err != nil {
		t.Fatalf("EncodeShareCode() error = %v", err)
	}
	fromCode, err := decodeSource(code)
	if err != nil {
		t.Fatalf("decodeSource(code) error = %v", err)
	}
	if fromCode.Score != 120 || len(fromCode.Inputs) != 1 {
		t.Errorf("decodeSource(code) = %+v", fromCode)
	}

	if _, err := decodeSource("not a replay"); err == nil {
		t.Error("decodeSource() accepted garbage")
	}
}
