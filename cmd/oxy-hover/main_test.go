package main

import (
	"bytes"
	"errors"
	"flag"
	"path/filepath"
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if o.manifest != "gallery.yaml" || o.debug || !o.vsync || o.msaa != 4 || o.software || o.fps != 0 {
		t.Errorf("parseFlags() = %+v, want defaults", o)
	}
	if o.overrides.ReducedMotion != nil || o.overrides.SaveData != nil ||
		o.overrides.DeviceMemoryGB != nil || o.overrides.LogicalCores != nil {
		t.Errorf("overrides = %+v, want none", o.overrides)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	o, err := parseFlags([]string{"-reduced-motion=false", "-memory", "2", "-cores", "8", "-msaa", "1"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if o.overrides.ReducedMotion == nil || *o.overrides.ReducedMotion {
		t.Errorf("ReducedMotion = %v, want explicit false", o.overrides.ReducedMotion)
	}
	if o.overrides.SaveData != nil {
		t.Errorf("SaveData set without the flag")
	}
	if o.overrides.DeviceMemoryGB == nil || *o.overrides.DeviceMemoryGB != 2 {
		t.Errorf("DeviceMemoryGB = %v, want 2", o.overrides.DeviceMemoryGB)
	}
	if o.overrides.LogicalCores == nil || *o.overrides.LogicalCores != 8 {
		t.Errorf("LogicalCores = %v, want 8", o.overrides.LogicalCores)
	}
	if o.msaa != 1 {
		t.Errorf("msaa = %d, want 1", o.msaa)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad msaa", []string{"-msaa", "2"}},
		{"unknown flag", []string{"-nope"}},
		{"extra argument", []string{"gallery.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args, &bytes.Buffer{}); err == nil {
				t.Errorf("parseFlags(%v) error = nil", tt.args)
			}
		})
	}

	_, err := parseFlags([]string{"-h"}, &bytes.Buffer{})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestRunExitCodes(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"-msaa", "3"}, &stderr); code != 2 {
		t.Errorf("run(bad flag) = %d, want 2", code)
	}
	if code := run([]string{"-h"}, &stderr); code != 0 {
		t.Errorf("run(-h) = %d, want 0", code)
	}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if code := run([]string{"-manifest", missing}, &stderr); code != 1 {
		t.Errorf("run(missing manifest) = %d, want 1", code)
	}
}
