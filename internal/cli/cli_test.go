package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-stage/engine/sequencer"
)

// sceneGLTF has clips "21" and "22", each 1.5s with one translation channel.
const sceneGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "notas", "nodes": [0]}],
  "nodes": [{"name": "root", "children": [1]}, {"name": "note"}],
  "buffers": [{"byteLength": 32, "uri": "data:application/octet-stream;base64,AAAAAAAAwD8AAAAAAAAAAAAAAAAAAIA/AAAAQAAAQEA="}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 8},
    {"buffer": 0, "byteOffset": 8, "byteLength": 24}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 2, "type": "SCALAR"},
    {"bufferView": 1, "componentType": 5126, "count": 2, "type": "VEC3"}
  ],
  "animations": [
    {"name": "21", "channels": [{"sampler": 0, "target": {"node": 1, "path": "translation"}}], "samplers": [{"input": 0, "output": 1}]},
    {"name": "22", "channels": [{"sampler": 0, "target": {"node": 1, "path": "translation"}}], "samplers": [{"input": 0, "output": 1}]}
  ]
}`

func setup(t *testing.T) (cfgPath, assetPath string) {
	t.Helper()
	dir := t.TempDir()

	assetPath = filepath.Join(dir, "scene.gltf")
	if err := os.WriteFile(assetPath, []byte(sceneGLTF), 0o644); err != nil {
		t.Fatal(err)
	}

	cfgPath = filepath.Join(dir, "oxy-stage.toml")
	body := `
[asset]
path = "` + filepath.ToSlash(assetPath) + `"

[audio]
backend = "silent"

[[queue]]
names = ["21", "99", "22"]

[[queue]]
names = ["55"]
delay_ms = 10
`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonOut = false
	checkStrict = false
	return cfgPath, assetPath
}

func TestCheckReportsMissingClips(t *testing.T) {
	cfgPath, assetPath := setup(t)

	var out bytes.Buffer
	if err := execute([]string{"check", "--config", cfgPath, "--json"}, &out); err != nil {
		t.Fatalf("check: %v", err)
	}

	var got checkResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.Asset != filepath.ToSlash(assetPath) || got.Batches != 2 || got.Resolved != 2 {
		t.Errorf("result = %+v", got)
	}
	if strings.Join(got.Missing, ",") != "99,55" {
		t.Errorf("Missing = %v, want [99 55]", got.Missing)
	}
}

func TestCheckStrictFails(t *testing.T) {
	cfgPath, _ := setup(t)

	var out bytes.Buffer
	err := execute([]string{"check", "--config", cfgPath, "--strict"}, &out)
	if !errors.Is(err, sequencer.ErrUnresolvedClip) {
		t.Fatalf("check --strict = %v, want ErrUnresolvedClip", err)
	}
	if !strings.Contains(out.String(), "missing: 99") {
		t.Errorf("output = %q, want missing names listed", out.String())
	}
}

func TestClipsListsAnimations(t *testing.T) {
	cfgPath, _ := setup(t)

	var out bytes.Buffer
	if err := execute([]string{"clips", "--config", cfgPath}, &out); err != nil {
		t.Fatalf("clips: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "INDEX") {
		t.Errorf("header = %q", lines[0])
	}
	if f := strings.Fields(lines[1]); len(f) != 4 || f[1] != "21" || f[2] != "1.500s" {
		t.Errorf("first row = %q, want clip 21 at 1.500s", lines[1])
	}
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(cfgPath, []byte("[engine]\ntick_rate = -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonOut = false

	if err := execute([]string{"check", "--config", cfgPath}, &bytes.Buffer{}); err == nil {
		t.Error("check with a negative tick rate succeeded")
	}
}
