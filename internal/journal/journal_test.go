package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	defer j.Close()

	entry := Entry{
		Account:    "alice",
		SessionID:  "sess-1",
		Day:        2,
		Instrument: "Hanbit Electronics",
		Side:       "BUY",
		Quantity:   10,
		Price:      50_000,
		CashAfter:  "500000",
	}
	if err := j.Append(entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".jsonl")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected journal file at %s: %v", path, err)
	}

	line := strings.TrimSpace(string(raw))
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("Journal line is not JSON: %v", err)
	}
	if rec["instrument"] != "Hanbit Electronics" {
		t.Errorf("Expected instrument in record, got %v", rec["instrument"])
	}
	if rec["side"] != "BUY" {
		t.Errorf("Expected side BUY, got %v", rec["side"])
	}
	if rec["cash_after"] != "500000" {
		t.Errorf("Expected cash_after as string, got %v", rec["cash_after"])
	}
}

func TestAppendAccumulatesLines(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	defer j.Close()

	for i := 0; i < 3; i++ {
		if err := j.Append(Entry{Instrument: "Daehan Motors", Side: "SELL", Quantity: 1, Price: 100}); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".jsonl")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 journal lines, got %d", len(lines))
	}
}

func TestCompressOlderSkipsRecentFiles(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	defer j.Close()

	if err := j.Append(Entry{Instrument: "Nova Energy Solutions", Side: "BUY", Quantity: 1, Price: 1}); err != nil {
		t.Fatal(err)
	}
	if err := j.CompressOlder(30); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".gz") {
			t.Errorf("Expected no compression of today's file, found %s", e.Name())
		}
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	j := New(t.TempDir())
	defer j.Close()
	if err := j.CompressOlder(0); err != nil {
		t.Errorf("Expected nil for disabled retention, got %v", err)
	}
}
