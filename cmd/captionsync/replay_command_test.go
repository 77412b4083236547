package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writePayloadFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return path
}

const manualPayloadJSON = `{
  "url": "https://example.test/timedtext",
  "trackLang": "en",
  "isAsr": false,
  "trackSignature": "sig",
  "responseHash": "h1",
  "events": [
    {"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "Hello there, viewers."}]},
    {"tStartMs": 3000, "dDurationMs": 1200, "segs": [{"utf8": "Another sentence."}]}
  ]
}`

func TestReplayCommandJSONOutput(t *testing.T) {
	payloadPath := writePayloadFile(t, manualPayloadJSON)
	missingConfig := filepath.Join(t.TempDir(), "nope.toml")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"replay", "--json", "-c", missingConfig, payloadPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v (stderr: %s)", err, stderr.String())
	}

	var rows []replayCue
	if err := json.Unmarshal(stdout.Bytes(), &rows); err != nil {
		t.Fatalf("decode output: %v\n%s", err, stdout.String())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d cues, want 2\n%s", len(rows), stdout.String())
	}
	if rows[0].Text != "Hello there, viewers." || rows[1].Text != "Another sentence." {
		t.Fatalf("unexpected cue texts: %+v", rows)
	}
	if rows[0].TrackKey != "en/sub/sig" {
		t.Fatalf("track key = %q", rows[0].TrackKey)
	}
}

func TestReplayCommandTableOutput(t *testing.T) {
	payloadPath := writePayloadFile(t, "["+manualPayloadJSON+"]")
	missingConfig := filepath.Join(t.TempDir(), "nope.toml")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"replay", "-c", missingConfig, payloadPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v (stderr: %s)", err, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Hello there, viewers.")) {
		t.Fatalf("table missing cue text:\n%s", stdout.String())
	}
}

func TestDecodePayloadFileRejectsGarbage(t *testing.T) {
	path := writePayloadFile(t, "not json")
	if _, err := decodePayloadFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00.000"},
		{1500, "0:01.500"},
		{61250, "1:01.250"},
		{-500, "-0:00.500"},
	}
	for _, tc := range tests {
		if got := formatMs(tc.ms); got != tc.want {
			t.Errorf("formatMs(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
