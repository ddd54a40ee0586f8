package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"CrashLadder/internal/model"
)

// CSVSource replays outcomes from a CSV export. Each record is either
// "value" or "unix_ts,value". Malformed, negative or sub-1.0 values are
// rejected here so they never reach the engine.
type CSVSource struct {
	f   *os.File
	r   *csv.Reader
	seq int64
}

func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open outcome file: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return &CSVSource{f: f, r: r}, nil
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Next() (model.Outcome, error) {
	rec, err := s.r.Read()
	if err == io.EOF {
		return model.Outcome{}, io.EOF
	}
	if err != nil {
		return model.Outcome{}, fmt.Errorf("read outcome record: %w", err)
	}

	var at time.Time
	var raw string
	switch len(rec) {
	case 1:
		raw = rec[0]
	case 2:
		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return model.Outcome{}, fmt.Errorf("outcome %d: bad timestamp %q", s.seq+1, rec[0])
		}
		at = time.Unix(ts, 0).UTC()
		raw = rec[1]
	default:
		return model.Outcome{}, fmt.Errorf("outcome %d: want 1 or 2 fields, got %d", s.seq+1, len(rec))
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("outcome %d: bad value %q", s.seq+1, raw)
	}
	if v < 1.0 {
		return model.Outcome{}, fmt.Errorf("outcome %d: multiplier %.4f below 1.0", s.seq+1, v)
	}

	s.seq++
	return model.Outcome{Seq: s.seq, At: at, Value: v}, nil
}

func (s *CSVSource) Close() error { return s.f.Close() }
