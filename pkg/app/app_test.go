package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/dustreveal/pkg/config"
	"github.com/decker502/dustreveal/pkg/embedded"
	"github.com/decker502/dustreveal/pkg/game"
	"github.com/decker502/dustreveal/pkg/scenes"
	"github.com/decker502/dustreveal/pkg/utils"
)

func TestLoadOverlayConfig_DefaultsWithoutEmbedded(t *testing.T) {
	embedded.Init(nil)

	cfg, err := loadOverlayConfig("")
	if err != nil {
		t.Fatalf("loadOverlayConfig failed: %v", err)
	}
	if cfg.Reveal.MaxStrokes != 3 {
		t.Errorf("MaxStrokes = %d, want default 3", cfg.Reveal.MaxStrokes)
	}
}

func TestLoadOverlayConfig_Embedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		DefaultConfigPath: {Data: []byte("reveal:\n  maxStrokes: 7\n")},
	})
	defer embedded.Init(nil)

	cfg, err := loadOverlayConfig("")
	if err != nil {
		t.Fatalf("loadOverlayConfig failed: %v", err)
	}
	if cfg.Reveal.MaxStrokes != 7 {
		t.Errorf("MaxStrokes = %d, want 7 from embedded config", cfg.Reveal.MaxStrokes)
	}
}

func TestLoadOverlayConfig_EmbeddedInvalid(t *testing.T) {
	embedded.Init(fstest.MapFS{
		DefaultConfigPath: {Data: []byte("reveal:\n  clearThreshold: 3\n")},
	})
	defer embedded.Init(nil)

	if _, err := loadOverlayConfig(""); err == nil {
		t.Error("expected error for invalid embedded config")
	}
}

func TestLoadOverlayConfig_DiskPathWins(t *testing.T) {
	embedded.Init(fstest.MapFS{
		DefaultConfigPath: {Data: []byte("reveal:\n  maxStrokes: 7\n")},
	})
	defer embedded.Init(nil)

	path := filepath.Join(t.TempDir(), "overlay.yaml")
	if err := os.WriteFile(path, []byte("reveal:\n  maxStrokes: 2\n"), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := loadOverlayConfig(path)
	if err != nil {
		t.Fatalf("loadOverlayConfig failed: %v", err)
	}
	if cfg.Reveal.MaxStrokes != 2 {
		t.Errorf("MaxStrokes = %d, want 2 from disk", cfg.Reveal.MaxStrokes)
	}
}

func TestLayoutClampsToPositiveSize(t *testing.T) {
	sm := game.NewSceneManager()
	a := &App{sceneManager: sm, onResize: sm.Resize}

	w, h := a.Layout(0, -5)
	if w != 1 || h != 1 {
		t.Errorf("Layout(0, -5) = %dx%d, want 1x1", w, h)
	}

	w, h = a.Layout(390, 844)
	if w != 390 || h != 844 {
		t.Errorf("Layout = %dx%d, want 390x844", w, h)
	}
	if sw, sh := a.sceneManager.Size(); sw != 390 || sh != 844 {
		t.Errorf("scene manager size = %dx%d, want 390x844", sw, sh)
	}
}

func TestRegisterListeners(t *testing.T) {
	a := &App{
		sceneManager: game.NewSceneManager(),
		listeners:    game.NewListenerRegistry(),
	}
	a.registerListeners()

	if a.onResize == nil {
		t.Fatal("resize listener should be registered")
	}
	// 桌面端（未模拟移动端）全屏切换可用
	if !a.fullscreenEnabled {
		t.Errorf("fullscreen toggle should be enabled on desktop, failed=%v", a.listeners.Failed())
	}
}

func TestRevealCompleteSwitchesToHost(t *testing.T) {
	sm := game.NewSceneManager()
	host := scenes.NewHostScene("host")
	sm.SetSceneFactory(func(name string) game.Scene {
		if name == scenes.SceneHost {
			return host
		}
		return nil
	})
	a := &App{sceneManager: sm}

	if a.Revealed() {
		t.Fatal("Revealed should be false before completion")
	}
	a.onRevealComplete()

	if !a.Revealed() {
		t.Error("Revealed should be true after completion")
	}
	if sm.GetCurrentScene() != game.Scene(host) {
		t.Error("current scene should be the host scene after completion")
	}
}

func TestToggleSound(t *testing.T) {
	a := &App{audioManager: game.NewAudioManager(nil, config.SoundConfig{Enabled: true, Volume: 0.5})}

	a.toggleSound()
	if a.audioManager.SoundEnabled() {
		t.Error("sound should be disabled after the first toggle")
	}
	a.toggleSound()
	if !a.audioManager.SoundEnabled() {
		t.Error("sound should be enabled after the second toggle")
	}
}

func TestShippedConfigTextRendersWithBuiltinFont(t *testing.T) {
	embedded.Init(os.DirFS(filepath.Join("..", "..")))
	defer embedded.Init(nil)

	cfg, err := loadOverlayConfig("")
	if err != nil {
		t.Fatalf("loadOverlayConfig failed: %v", err)
	}
	if cfg.Celebration.FontPath != "" {
		t.Skipf("shipped config sets fontPath %q", cfg.Celebration.FontPath)
	}
	missing, err := utils.MissingGlyphs("", cfg.Celebration.Text)
	if err != nil {
		t.Fatalf("MissingGlyphs failed: %v", err)
	}
	if len(missing) > 0 {
		t.Errorf("built-in font has no glyphs for %q in %q", string(missing), cfg.Celebration.Text)
	}
}
