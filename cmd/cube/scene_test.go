// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullScene = `
variant: cube
clear_color: [0, 0, 0, 1]
camera:
  eye: [0, 0, 2]
  target: [0, 0, 0]
  up: [0, 1, 0]
  fov_y_degrees: 60
  near: 0.1
  far: 50
motion:
  translation: [0, 0, -3]
  rates_degrees: [0, 45, 0]
ambient:
  color: [1, 0.9, 0.8]
  intensity: 0.3
directional:
  position: [4, 4, 4, 1]
  color: [1, 1, 1]
`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(fullScene))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if s.Variant != "cube" {
		t.Errorf("variant = %q", s.Variant)
	}
	if s.Camera == nil || s.Camera.FovYDegrees != 60 {
		t.Errorf("camera = %+v", s.Camera)
	}
	if s.Ambient == nil || s.Ambient.Intensity == nil || *s.Ambient.Intensity != 0.3 {
		t.Errorf("ambient = %+v", s.Ambient)
	}
	opts, err := s.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	// variant, clear color, camera, motion, lights
	if len(opts) != 5 {
		t.Errorf("len(opts) = %d, want 5", len(opts))
	}
}

func TestEmptySceneKeepsDefaults(t *testing.T) {
	s, err := ParseScene([]byte("{}"))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	opts, err := s.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts) != 0 {
		t.Errorf("len(opts) = %d, want 0", len(opts))
	}
}

func TestSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown variant", "variant: sphere", "unknown variant"},
		{"short clear color", "clear_color: [1, 1]", "clear_color"},
		{"short eye", "camera: {eye: [1, 2]}", "camera.eye"},
		{"fov out of range", "camera: {fov_y_degrees: 180}", "fov_y_degrees"},
		{"near beyond far", "camera: {near: 10, far: 1}", "near"},
		{"short position", "directional: {position: [1, 2, 3]}", "directional.position"},
		{"short rates", "motion: {rates_degrees: [1]}", "motion.rates_degrees"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScene([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseScene: %v", err)
			}
			_, err = s.Options()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Options error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseSceneMalformed(t *testing.T) {
	if _, err := ParseScene([]byte("camera: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(fullScene), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if s.Motion == nil || len(s.Motion.Translation) != 3 {
		t.Errorf("motion = %+v", s.Motion)
	}
	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadScene of missing file succeeded")
	}
}
