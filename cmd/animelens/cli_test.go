package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCLIConfig(t *testing.T, traceURL, anilistURL string) string {
	t.Helper()

	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`
[paths]
data_dir = %q
log_dir = %q

[trace]
base_url = %q

[anilist]
base_url = %q
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), traceURL, anilistURL)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestHistoryEmpty(t *testing.T) {
	configPath := writeCLIConfig(t, "https://api.trace.moe", "https://graphql.anilist.co")

	out, err := runCLI(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No scans yet")
}

func TestProfileDefaults(t *testing.T) {
	configPath := writeCLIConfig(t, "https://api.trace.moe", "https://graphql.anilist.co")

	out, err := runCLI(t, "--config", configPath, "profile")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	requireContains(t, out, "Level 1")
}

func TestScanRejectsNonImageURL(t *testing.T) {
	configPath := writeCLIConfig(t, "https://api.trace.moe", "https://graphql.anilist.co")

	if _, err := runCLI(t, "--config", configPath, "scan", "https://example.com/page.html"); err == nil {
		t.Fatal("expected error for non-image link")
	}
}

func TestScanEndToEnd(t *testing.T) {
	traceServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[{"anilist":1,"filename":"Cowboy Bebop - 05.mkv","from":312.0,"to":318.5,"similarity":0.973,"video":"https://media/video.mp4"}]}`))
	}))
	t.Cleanup(traceServer.Close)

	anilistServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Media":{
			"id":1,
			"title":{"romaji":"Cowboy Bebop","english":"Cowboy Bebop"},
			"coverImage":{"large":"https://img/bebop.jpg"},
			"description":"In 2071, bounty hunters chase criminals.",
			"genres":["Action","Sci-Fi"],
			"tags":[{"name":"Space","rank":95}],
			"averageScore":86,
			"episodes":26,
			"seasonYear":1998
		}}}`))
	}))
	t.Cleanup(anilistServer.Close)

	configPath := writeCLIConfig(t, traceServer.URL, anilistServer.URL)

	out, err := runCLI(t, "--config", configPath, "scan", "https://example.com/frame.jpg")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Cowboy Bebop")
	requireContains(t, out, "97.3% match")
	requireContains(t, out, "Scan recorded (Level 1)")

	out, err = runCLI(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history after scan: %v", err)
	}
	requireContains(t, out, "Cowboy Bebop")
	requireContains(t, out, "1 of up to 200 scans kept")
}

func TestScanNoMatch(t *testing.T) {
	traceServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	t.Cleanup(traceServer.Close)

	configPath := writeCLIConfig(t, traceServer.URL, "https://graphql.anilist.co")

	out, err := runCLI(t, "--config", configPath, "scan", "https://example.com/frame.jpg")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "No match found")
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	configPath := writeCLIConfig(t, "https://api.trace.moe", "https://graphql.anilist.co")

	out, err := runCLI(t, "--config", configPath, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "No ntfy topic configured")
}
