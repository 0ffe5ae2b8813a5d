package matcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/visual-match/internal/imaging"
)

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestLoadScript(t *testing.T) {
	frame, tmpl := sceneWithTemplate()
	dir := t.TempDir()
	writePNG(t, dir, "button.png", tmpl)

	path := writeScript(t, dir, `
templates:
  Start_Button:
    type: image
    path: button.png
    threshold: 0.9
  marker:
    type: color_chain
    anchor: "#dc1e1e"
    colors:
      - [4, 0, "#dc1e1e"]
    region: [0, 0, 80, 60]
`)

	s, err := LoadScript(path, Deps{Cache: imaging.NewImageCache()})
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "marker" || names[1] != "start_button" {
		t.Fatalf("Names: got %v, want [marker start_button]", names)
	}

	res, err := s.Templates["start_button"].Match(context.Background(), frame)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if res.Empty() {
		t.Error("start_button: got EmptyMatch")
	}
}

func TestLoadScript_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadScript(filepath.Join(dir, "missing.yaml"), Deps{}); !errors.Is(err, ErrConfig) {
		t.Errorf("missing file: got %v, want ErrConfig", err)
	}

	empty := writeScript(t, dir, "other: 1\n")
	if _, err := LoadScript(empty, Deps{}); !errors.Is(err, ErrConfig) {
		t.Errorf("no templates: got %v, want ErrConfig", err)
	}

	bad := writeScript(t, dir, "templates:\n  x:\n    type: color\n")
	if _, err := LoadScript(bad, Deps{}); !errors.Is(err, ErrConfig) {
		t.Errorf("bad template: got %v, want ErrConfig", err)
	}
}
