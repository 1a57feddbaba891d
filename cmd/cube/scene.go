// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/cube"
	"github.com/gogpu/cube/transform"
)

// maxSceneSize bounds the scene file read from disk.
const maxSceneSize = 1 << 20

// Scene is the YAML scene description. Every section is optional; missing
// sections keep the renderer defaults.
//
//	variant: lit
//	clear_color: [0, 0.68, 1, 1]
//	camera:
//	  eye: [0, 0, 0.01]
//	  target: [0, 0, 0]
//	  up: [0, -1, 0]
//	  fov_y_degrees: 90
//	motion:
//	  translation: [0, 0, -1.5]
//	  rates_degrees: [10, 20, 30]
//	ambient:
//	  color: [1, 1, 1]
//	  intensity: 0.2
//	directional:
//	  position: [-4, -4, 0, 1]
//	  color: [1, 1, 1]
type Scene struct {
	Variant     string             `yaml:"variant"`
	ClearColor  []float64          `yaml:"clear_color"`
	Camera      *CameraConfig      `yaml:"camera"`
	Motion      *MotionConfig      `yaml:"motion"`
	Ambient     *AmbientConfig     `yaml:"ambient"`
	Directional *DirectionalConfig `yaml:"directional"`
}

// CameraConfig overrides the camera. Zero values keep the defaults.
type CameraConfig struct {
	Eye         []float32 `yaml:"eye"`
	Target      []float32 `yaml:"target"`
	Up          []float32 `yaml:"up"`
	FovYDegrees float32   `yaml:"fov_y_degrees"`
	Near        float32   `yaml:"near"`
	Far         float32   `yaml:"far"`
}

// MotionConfig overrides the model translation and rotation rates.
type MotionConfig struct {
	Translation  []float32 `yaml:"translation"`
	RatesDegrees []float32 `yaml:"rates_degrees"`
}

// AmbientConfig overrides the ambient light.
type AmbientConfig struct {
	Color     []float32 `yaml:"color"`
	Intensity *float32  `yaml:"intensity"`
}

// DirectionalConfig overrides the directional light.
type DirectionalConfig struct {
	Position []float32 `yaml:"position"`
	Color    []float32 `yaml:"color"`
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSceneSize {
		return nil, fmt.Errorf("scene %s: file too large (%d bytes)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

// ParseScene parses a YAML scene description.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &s, nil
}

// Options converts the scene into renderer options.
func (s *Scene) Options() ([]cube.Option, error) {
	var opts []cube.Option
	model := transform.DefaultModel()

	if s.Variant != "" {
		v, err := cube.ParseVariant(s.Variant)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cube.WithVariant(v))
	}

	if s.ClearColor != nil {
		if len(s.ClearColor) != 4 {
			return nil, fmt.Errorf("clear_color: want 4 components, got %d", len(s.ClearColor))
		}
		opts = append(opts, cube.WithClearColor(gputypes.Color{
			R: s.ClearColor[0], G: s.ClearColor[1], B: s.ClearColor[2], A: s.ClearColor[3],
		}))
	}

	if c := s.Camera; c != nil {
		cam := model.Camera
		if err := setVec3(&cam.Eye, c.Eye, "camera.eye"); err != nil {
			return nil, err
		}
		if err := setVec3(&cam.Target, c.Target, "camera.target"); err != nil {
			return nil, err
		}
		if err := setVec3(&cam.Up, c.Up, "camera.up"); err != nil {
			return nil, err
		}
		if c.FovYDegrees != 0 {
			if c.FovYDegrees <= 0 || c.FovYDegrees >= 180 {
				return nil, fmt.Errorf("camera.fov_y_degrees: %v out of range (0, 180)", c.FovYDegrees)
			}
			cam.FovY = mgl32.DegToRad(c.FovYDegrees)
		}
		if c.Near != 0 {
			cam.Near = c.Near
		}
		if c.Far != 0 {
			cam.Far = c.Far
		}
		if cam.Near <= 0 || cam.Far <= cam.Near {
			return nil, fmt.Errorf("camera: need 0 < near < far, got near=%v far=%v", cam.Near, cam.Far)
		}
		opts = append(opts, cube.WithCamera(cam))
	}

	if m := s.Motion; m != nil {
		motion := model.Motion
		if err := setVec3(&motion.Translation, m.Translation, "motion.translation"); err != nil {
			return nil, err
		}
		var deg mgl32.Vec3
		if m.RatesDegrees != nil {
			if err := setVec3(&deg, m.RatesDegrees, "motion.rates_degrees"); err != nil {
				return nil, err
			}
			motion.Rates = mgl32.Vec3{mgl32.DegToRad(deg[0]), mgl32.DegToRad(deg[1]), mgl32.DegToRad(deg[2])}
		}
		opts = append(opts, cube.WithMotion(motion))
	}

	if s.Ambient != nil || s.Directional != nil {
		amb, dir := model.Ambient, model.Directional
		if a := s.Ambient; a != nil {
			if err := setVec3(&amb.Color, a.Color, "ambient.color"); err != nil {
				return nil, err
			}
			if a.Intensity != nil {
				amb.Intensity = *a.Intensity
			}
		}
		if d := s.Directional; d != nil {
			if d.Position != nil {
				if len(d.Position) != 4 {
					return nil, fmt.Errorf("directional.position: want 4 components, got %d", len(d.Position))
				}
				dir.Position = mgl32.Vec4{d.Position[0], d.Position[1], d.Position[2], d.Position[3]}
			}
			if err := setVec3(&dir.Color, d.Color, "directional.color"); err != nil {
				return nil, err
			}
		}
		opts = append(opts, cube.WithLights(amb, dir))
	}
	return opts, nil
}

// setVec3 copies src into dst when src is set.
func setVec3(dst *mgl32.Vec3, src []float32, field string) error {
	if src == nil {
		return nil
	}
	if len(src) != 3 {
		return fmt.Errorf("%s: want 3 components, got %d", field, len(src))
	}
	*dst = mgl32.Vec3{src[0], src[1], src[2]}
	return nil
}
