package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/ironsheep/shapescan/internal/detection"
	"github.com/ironsheep/shapescan/internal/imaging"
)

// isolateHome points the config search at an empty directory.
func isolateHome(t *testing.T) {
	t.Helper()
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// createSquareImage is a white canvas with one black 60x60 square.
func createSquareImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x >= 50 && x < 110 && y >= 50 && y < 110 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createHalfImage is blue on the left half and green on the right.
func createHalfImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 10, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 10; x++ {
			c := color.RGBA{0, 0, 255, 255}
			if x >= 5 {
				c = color.RGBA{0, 255, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, stdin, args...)
	return out, err
}

// runCapture executes the CLI with args and returns stdout and stderr.
func runCapture(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand(BuildInfo{Version: "1.0.0-test", BuildTime: "now", GitCommit: "abc123"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestShapesCommand(t *testing.T) {
	isolateHome(t)
	path := writePNG(t, createSquareImage())

	out, err := run(t, "", "shapes", path)
	if err != nil {
		t.Fatalf("shapes failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one shape:\n%s", len(lines), out)
	}
	if lines[0] != "Detected List [Shape, (Centroid X, Centroid Y)]:" {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[Square, (") {
		t.Errorf("shape line: got %q", lines[1])
	}
}

func TestShapesCommand_JSON(t *testing.T) {
	isolateHome(t)
	path := writePNG(t, createSquareImage())

	out, err := run(t, "", "shapes", "--json", path)
	if err != nil {
		t.Fatalf("shapes failed: %v", err)
	}

	var res detection.ShapesResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.Count != 1 || res.Shapes[0].Label != detection.Square {
		t.Errorf("got %+v", res)
	}
}

func TestShapesCommand_SaveDir(t *testing.T) {
	isolateHome(t)
	path := writePNG(t, createSquareImage())
	dir := t.TempDir()

	if _, err := run(t, "", "--save-dir", dir, "shapes", path); err != nil {
		t.Fatalf("shapes failed: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "identified-shapes-*.png"))
	if len(matches) != 1 {
		t.Fatalf("got %v, want one annotated image", matches)
	}
	saved, err := imaging.Load(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if saved.Bounds().Dx() != 200 || saved.Bounds().Dy() != 200 {
		t.Errorf("saved size: got %v", saved.Bounds())
	}
}

func TestShapesCommand_ConfigFile(t *testing.T) {
	isolateHome(t)
	path := writePNG(t, createSquareImage())

	cfgPath := filepath.Join(t.TempDir(), "shapescan.yaml")
	if err := os.WriteFile(cfgPath, []byte("shapes:\n  max_area: 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "--config", cfgPath, "shapes", path)
	if err != nil {
		t.Fatalf("shapes failed: %v", err)
	}
	if strings.Contains(out, "Square") {
		t.Errorf("max_area from the config file should drop the square:\n%s", out)
	}
}

func TestShapesCommand_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("SHAPESCAN_SHAPES_MAX_AREA", "1000")
	path := writePNG(t, createSquareImage())

	out, err := run(t, "", "shapes", path)
	if err != nil {
		t.Fatalf("shapes failed: %v", err)
	}
	if strings.Contains(out, "Square") {
		t.Errorf("SHAPESCAN_SHAPES_MAX_AREA should drop the square:\n%s", out)
	}
}

func TestSegmentCommand(t *testing.T) {
	isolateHome(t)
	path := writePNG(t, createHalfImage())
	dir := t.TempDir()

	out, err := run(t, "", "--save-dir", dir, "segment", path)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	want := "Water: 50.00% (20 px)  Land: 50.00% (20 px)  Total: 40 px"
	if strings.TrimSpace(out) != want {
		t.Errorf("summary: got %q, want %q", strings.TrimSpace(out), want)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "output-*.png"))
	if len(matches) != 1 {
		t.Fatalf("got %v, want one output image", matches)
	}
}

func TestCommands_Errors(t *testing.T) {
	isolateHome(t)
	path := writePNG(t, createHalfImage())

	badCfg := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badCfg, []byte("shapes:\n  blur_kernel: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing image", []string{"segment", "/nonexistent/input.png"}},
		{"no argument", []string{"shapes"}},
		{"invalid config", []string{"--config", badCfg, "shapes", path}},
		{"missing config file", []string{"--config", "/nonexistent/shapescan.yaml", "segment", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSegmentCommand_InputError(t *testing.T) {
	isolateHome(t)

	_, err := run(t, "", "segment", "/nonexistent/input.png")
	var inErr *imaging.InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("got %v, want InputError", err)
	}
	if inErr.Path != "/nonexistent/input.png" {
		t.Errorf("path: got %s", inErr.Path)
	}
}

func TestServeCommand(t *testing.T) {
	isolateHome(t)

	out, err := run(t, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n", "serve")
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	var resp struct {
		ID     float64 `json:"id"`
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("bad response: %v\n%s", err, out)
	}
	if resp.Result.ServerInfo.Name != "shapescan" || resp.Result.ServerInfo.Version != "1.0.0-test" {
		t.Errorf("serverInfo: got %+v", resp.Result.ServerInfo)
	}
}

func TestVersionCommand(t *testing.T) {
	isolateHome(t)

	// A broken config must not stop version from printing.
	out, err := run(t, "", "--config", "/nonexistent/shapescan.yaml", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"shapescan 1.0.0-test", "Build time: now", "Git commit: abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSink_Default(t *testing.T) {
	a := &app{}
	s, err := a.sink()
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("sink is nil")
	}
}

func TestCommands_BrokenHomeConfig(t *testing.T) {
	homedir.DisableCache = true
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".shapescan.yaml"), []byte("shapes: [max_area: 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writePNG(t, createSquareImage())

	out, stderr, err := runCapture(t, "", "shapes", path)
	if err != nil {
		t.Fatalf("a broken home config should not be fatal: %v", err)
	}
	if !strings.Contains(stderr, "Ignoring config file") || !strings.Contains(stderr, ".shapescan.yaml") {
		t.Errorf("stderr should name the skipped file:\n%s", stderr)
	}
	if !strings.Contains(out, "[Square, (") {
		t.Errorf("defaults should apply:\n%s", out)
	}
}
