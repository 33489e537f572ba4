package main

import "testing"

func TestLoadSceneBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		scene string
	}{
		{"cornell", "cornell"},
		{"teapot", "teapot"},
		{"diamond", "diamond"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &cliConfig{SceneArg: tt.scene, Iterations: 1, SppPerIteration: 1, MaxDepth: 2, MaxInvisibleDepth: 2, InitialNumNearest: 4}
			s, rcfg, aspect, err := loadScene(cfg)
			if err != nil {
				t.Fatalf("loadScene(%s): %v", tt.scene, err)
			}
			if s == nil {
				t.Fatal("expected non-nil scene")
			}
			if aspect <= 0 {
				t.Errorf("aspect ratio must be positive, got %v", aspect)
			}
			if rcfg.Iterations != 1 {
				t.Errorf("expected iterations carried through from cliConfig, got %d", rcfg.Iterations)
			}
		})
	}
}

func TestLoadSceneUnknownPathErrors(t *testing.T) {
	cfg := &cliConfig{SceneArg: "/nonexistent/path/scene.toml"}
	if _, _, _, err := loadScene(cfg); err == nil {
		t.Fatal("expected an error loading a nonexistent scene file")
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("scenes/cornell.toml"); got != "scenes_cornell_toml" {
		t.Errorf("sanitize = %q, want %q", got, "scenes_cornell_toml")
	}
}
