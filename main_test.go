package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		width       int
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", 0, false},
		{"random scene", "random", 0, false},
		{"spheregrid scene", "spheregrid", 0, false},
		{"empty scene", "empty", 0, false},
		{"width override", "default", 120, false},

		// JSON scenes (by path)
		{"json scene", "scenes/two-spheres.json", 0, false},

		// Invalid scenes
		{"unknown scene", "nonexistent", 0, true},
		{"invalid json path", "scenes/nonexistent.json", 0, true},
		{"empty scene name", "", 0, true},
		{"negative width", "default", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType, tt.width)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %T", tt.sceneType, scene)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.CameraConfig.Width <= 0 {
				t.Errorf("Scene camera width should be positive, got %d", scene.CameraConfig.Width)
			}
			if tt.width > 0 && scene.SamplingConfig.Width != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, scene.SamplingConfig.Width)
			}
			if err := scene.Validate(); err != nil {
				t.Errorf("Scene '%s' should be valid: %v", tt.sceneType, err)
			}
		})
	}
}

func TestRenderConfig(t *testing.T) {
	sc, err := createScene("default", 0)
	if err != nil {
		t.Fatal(err)
	}

	rc := renderConfig(Config{Seed: 3}, sc)
	if rc.SamplesPerPixel != sc.SamplingConfig.SamplesPerPixel || rc.MaxDepth != sc.SamplingConfig.MaxDepth {
		t.Errorf("Expected scene sampling defaults, got %+v", rc)
	}

	rc = renderConfig(Config{Samples: 7, MaxDepth: 2, NumWorkers: 3, Seed: 9}, sc)
	if rc.SamplesPerPixel != 7 || rc.MaxDepth != 2 || rc.NumWorkers != 3 || rc.Seed != 9 {
		t.Errorf("Expected flag overrides, got %+v", rc)
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"explicit", Config{SceneName: "default", Output: "out.ppm"}, "out.ppm"},
		{"builtin", Config{SceneName: "random"}, filepath.Join("output", "random", "render_20240506_070809.png")},
		{"json file", Config{SceneName: "scenes/two-spheres.json"}, filepath.Join("output", "two-spheres", "render_20240506_070809.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.config, now); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
