package sessionlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COPILOT_LOG_DIR", dir)

	err := Append(Entry{
		Session:    "sess-1",
		Tool:       "get_quote",
		ArgsDigest: ArgsDigest(map[string]any{"symbols": []string{"SPY"}}),
		OK:         true,
		DurationMs: 42,
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := Append(Entry{Session: "sess-1", Tool: "validate_symphony", OK: false}); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	p := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".jsonl")
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("bad JSONL line: %v", err)
		}
		entries = append(entries, e)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Tool != "get_quote" || !entries[0].OK {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].ArgsDigest == "" {
		t.Error("expected args digest on first entry")
	}
	if entries[1].OK {
		t.Error("second entry should record failure")
	}
}

func TestAppendDeploy(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COPILOT_LOG_DIR", dir)

	err := AppendDeploy(DeployEntry{
		Session:    "sess-2",
		SymphonyID: "sym-1",
		Capital:    5000,
		Simulated:  true,
	})
	if err != nil {
		t.Fatalf("AppendDeploy failed: %v", err)
	}

	p := filepath.Join(dir, "deploys", time.Now().UTC().Format("2006-01-02")+".jsonl")
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read deploy log: %v", err)
	}

	var e DeployEntry
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("bad deploy entry: %v", err)
	}
	if e.SymphonyID != "sym-1" || !e.Simulated {
		t.Errorf("unexpected deploy entry: %+v", e)
	}
}

func TestArgsDigestStable(t *testing.T) {
	a := ArgsDigest(map[string]any{"symbol": "SPY", "interval": "day"})
	b := ArgsDigest(map[string]any{"symbol": "SPY", "interval": "day"})
	if a == "" {
		t.Fatal("expected non-empty digest")
	}
	if a != b {
		t.Errorf("digest not stable: %s vs %s", a, b)
	}
	if ArgsDigest(nil) != "" {
		t.Error("nil args should digest to empty string")
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COPILOT_LOG_DIR", dir)

	p := filepath.Join(dir, "2020-01-01.jsonl")
	if err := os.WriteFile(p, []byte(`{"tool":"old"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("expected original file to be removed")
	}
	if _, err := os.Stat(p + ".gz"); err != nil {
		t.Errorf("expected gz file: %v", err)
	}
}
