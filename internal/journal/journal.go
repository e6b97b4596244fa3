// Package journal writes an append-only record of executed trades to daily
// JSON-line files, separate from the operational log so runs can be
// replayed and audited after the fact.
package journal

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Entry is one executed trade.
type Entry struct {
	Account    string
	SessionID  string
	Day        int
	Instrument string
	Side       string // BUY or SELL
	Quantity   int64
	Price      int64
	CashAfter  string // decimal string, avoids float drift in the record
}

// Journal appends trade entries to one file per calendar day under a
// directory. The underlying zap logger is rebuilt when the day rolls over.
type Journal struct {
	dir string

	mu      sync.Mutex
	current string // date the open logger writes to, yyyy-mm-dd
	logger  *zap.Logger
	closer  func() error
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "journal"
	}
	return &Journal{dir: dir}
}

// Append records one trade. Errors are returned but callers normally just
// log them: a journal failure never blocks the trade itself.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	lg, err := j.loggerFor(now)
	if err != nil {
		return err
	}

	lg.Info("trade",
		zap.String("account", e.Account),
		zap.String("session_id", e.SessionID),
		zap.Int("day", e.Day),
		zap.String("instrument", e.Instrument),
		zap.String("side", e.Side),
		zap.Int64("quantity", e.Quantity),
		zap.Int64("price", e.Price),
		zap.String("cash_after", e.CashAfter),
	)
	return lg.Sync()
}

func (j *Journal) loggerFor(now time.Time) (*zap.Logger, error) {
	date := now.Format("2006-01-02")
	if j.logger != nil && j.current == date {
		return j.logger, nil
	}
	if j.closer != nil {
		_ = j.closer()
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(j.dir, date+".jsonl"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.InfoLevel)

	j.logger = zap.New(core)
	j.closer = f.Close
	j.current = date
	return j.logger, nil
}

// Close flushes and closes the current day's file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.logger != nil {
		_ = j.logger.Sync()
	}
	if j.closer != nil {
		err := j.closer()
		j.closer = nil
		j.logger = nil
		return err
	}
	return nil
}

// CompressOlder gzips journal files older than retentionDays and removes
// the originals. A non-positive retention disables compression.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
