package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/specialistvlad/releaseplan/internal/hclconf"
	"github.com/specialistvlad/releaseplan/internal/scan"
	"github.com/specialistvlad/releaseplan/internal/search"
	"github.com/specialistvlad/releaseplan/internal/statespace"
	tu "github.com/specialistvlad/releaseplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg Config) (*App, *tu.SafeBuffer, *tu.SafeBuffer) {
	t.Helper()
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	out, logs := &tu.SafeBuffer{}, &tu.SafeBuffer{}
	return NewApp(out, logs, validated, nil), out, logs
}

func referenceScanPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(tu.WriteFiles(t, map[string]string{"input.txt": tu.ReferenceScan}), "input.txt")
}

func TestRun_ReferenceText(t *testing.T) {
	t.Parallel()
	a, out, _ := newTestApp(t, Config{InputPath: referenceScanPath(t)})

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "first = 1651\nsecond = 1707\n", out.String())
	assert.Equal(t, tu.ReferenceSolo, result.Solo)
	assert.Equal(t, tu.ReferenceDuo, result.Duo)
	assert.Equal(t, "AA", result.Start)
	assert.Equal(t, 30, result.SoloMinutes)
	assert.Equal(t, 26, result.DuoMinutes)
	assert.Equal(t, 10, result.Nodes)
	assert.Equal(t, 6, result.RatePositive)
	// Layers 0..29, ten nodes, 64 masks.
	assert.Equal(t, int64(30*10*64), result.Cells)
	assert.Empty(t, result.Plan)
}

func TestRun_ReferenceJSONWithVerify(t *testing.T) {
	t.Parallel()
	a, out, logs := newTestApp(t, Config{
		InputPath:    referenceScanPath(t),
		OutputFormat: OutputJSON,
		Verify:       true,
		Workers:      3,
	})

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	var got struct {
		First  int           `json:"first"`
		Second int           `json:"second"`
		Plan   []search.Step `json:"plan"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
	assert.Equal(t, tu.ReferenceSolo, got.First)
	assert.Equal(t, tu.ReferenceDuo, got.Second)
	require.NotEmpty(t, got.Plan)
	assert.Equal(t, search.Step{Node: "DD", Minute: 2}, got.Plan[0])
	assert.Contains(t, logs.String(), "Search agrees with table.")
}

func TestRun_HCLInputAndScenarioPrecedence(t *testing.T) {
	t.Parallel()
	dir := tu.WriteFiles(t, map[string]string{"net.hcl": tu.ReferenceHCL})

	testCases := []struct {
		name     string
		cli      config.Scenario
		wantSolo int
		wantDuo  int
	}{
		{name: "file values", wantSolo: tu.ReferenceSolo, wantDuo: tu.ReferenceDuo},
		{name: "cli solo wins", cli: config.Scenario{SoloMinutes: config.Minutes(1)}, wantSolo: 0, wantDuo: tu.ReferenceDuo},
		{name: "cli duo wins", cli: config.Scenario{DuoMinutes: config.Minutes(2)}, wantSolo: tu.ReferenceSolo, wantDuo: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, _, _ := newTestApp(t, Config{InputPath: filepath.Join(dir, "net.hcl"), Scenario: tc.cli})
			result, err := a.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.wantSolo, result.Solo)
			assert.Equal(t, tc.wantDuo, result.Duo)
		})
	}
}

func TestRun_DirectoryInput(t *testing.T) {
	t.Parallel()
	dir := tu.WriteFiles(t, map[string]string{"nodes/net.hcl": tu.ReferenceHCL})
	a, out, _ := newTestApp(t, Config{InputPath: filepath.Join(dir, "nodes")})

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first = 1651\nsecond = 1707\n", out.String())
}

func TestRun_EmitHCL(t *testing.T) {
	t.Parallel()
	a, out, _ := newTestApp(t, Config{
		InputPath: referenceScanPath(t),
		Scenario:  config.Scenario{DuoMinutes: config.Minutes(20)},
		EmitHCL:   true,
	})

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)

	model, err := hclconf.Decode("emitted.hcl", []byte(out.String()))
	require.NoError(t, err)
	want := config.Scenario{Start: "AA", SoloMinutes: config.Minutes(30), DuoMinutes: config.Minutes(20)}
	if diff := cmp.Diff(want, model.Scenario); diff != "" {
		t.Errorf("scenario mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, model.Nodes, 10)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()
	dir := tu.WriteFiles(t, map[string]string{
		"bad.txt": "Valve AA has flow rate=zero; tunnels lead to valves BB\n",
	})

	testCases := []struct {
		name    string
		cfg     Config
		wantIs  error
		wantMsg string
	}{
		{
			name:    "missing file",
			cfg:     Config{InputPath: filepath.Join(dir, "nope.txt")},
			wantMsg: "failed to load input",
		},
		{
			name:   "syntax error",
			cfg:    Config{InputPath: filepath.Join(dir, "bad.txt")},
			wantIs: scan.ErrSyntax,
		},
		{
			name:    "unknown start",
			cfg:     Config{InputPath: referenceScanPath(t), Scenario: config.Scenario{Start: "ZZ"}},
			wantMsg: "failed to build graph",
		},
		{
			name: "table too large",
			cfg: Config{
				InputPath: referenceScanPath(t),
				Limits:    statespace.Limits{MaxCells: 100},
			},
			wantIs: statespace.ErrStateSpaceTooLarge,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, out, _ := newTestApp(t, tc.cfg)
			_, err := a.Run(context.Background())
			require.Error(t, err)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestApp(t, Config{InputPath: referenceScanPath(t)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RecordsMetrics(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestApp(t, Config{InputPath: referenceScanPath(t)})
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.serveMux().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `releaseplan_best_release{scenario="solo"} 1651`)
	assert.Contains(t, string(body), `releaseplan_best_release{scenario="duo"} 1707`)
	assert.Contains(t, string(body), "releaseplan_table_cells 19200")
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestApp(t, Config{InputPath: "unused.txt", LogLevel: "debug"})

	rec := httptest.NewRecorder()
	a.serveMux().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestLoaderFor(t *testing.T) {
	t.Parallel()
	dir := tu.WriteFiles(t, map[string]string{"a/net.hcl": tu.ReferenceHCL})

	assert.IsType(t, &hclconf.Loader{}, LoaderFor("net.hcl"))
	assert.IsType(t, &hclconf.Loader{}, LoaderFor("NET.HCL"))
	assert.IsType(t, &hclconf.Loader{}, LoaderFor(filepath.Join(dir, "a")))
	assert.IsType(t, &scan.Loader{}, LoaderFor("input.txt"))
	assert.IsType(t, &scan.Loader{}, LoaderFor("input"))
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{InputPath: "x"})
	require.NoError(t, err)
	assert.Equal(t, OutputText, cfg.OutputFormat)

	_, err = NewConfig(Config{})
	assert.ErrorContains(t, err, "InputPath")

	_, err = NewConfig(Config{InputPath: "x", OutputFormat: "yaml"})
	assert.ErrorContains(t, err, "invalid output format")

	_, err = NewConfig(Config{InputPath: "x", Scenario: config.Scenario{SoloMinutes: config.Minutes(-1)}})
	assert.ErrorContains(t, err, "must not be negative")
}

func TestResultWrite(t *testing.T) {
	t.Parallel()
	r := &Result{Solo: 3, Duo: 4}

	var text tu.SafeBuffer
	require.NoError(t, r.Write(&text, OutputText))
	assert.Equal(t, "first = 3\nsecond = 4\n", text.String())

	var js tu.SafeBuffer
	require.NoError(t, r.Write(&js, OutputJSON))
	assert.JSONEq(t, `{
		"start": "", "solo_minutes": 0, "duo_minutes": 0,
		"first": 3, "second": 4,
		"nodes": 0, "rate_positive": 0, "cells": 0, "build_duration_ns": 0
	}`, js.String())
}
