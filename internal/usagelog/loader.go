package usagelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order; the first is the tracker's own format.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
}

// requiredColumns are the header names every log file must carry.
var requiredColumns = []string{"app_name", "duration", "timestamp"}

// Load reads the usage log at path.
//
// A missing file yields an empty log without error. Malformed rows are dropped
// and counted in Log.Dropped. Only an unreadable file or a header without the
// required columns is reported as an error.
func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l := NewLog(nil)
			l.Path = path
			return l, nil
		}
		return nil, fmt.Errorf("failed to open usage log: %w", err)
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse usage log %s: %w", path, err)
	}
	l.Path = path
	return l, nil
}

// Parse reads CSV usage rows from r.
func Parse(r io.Reader) (*Log, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewLog(nil), nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []UsageRecord
	dropped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError on a single line: drop it and keep reading
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				dropped++
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rec, ok := parseRow(row, columns)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	l := NewLog(records)
	l.Dropped += dropped
	if l.Dropped > 0 {
		log.Printf("Warning: dropped %d malformed usage rows", l.Dropped)
	}
	return l, nil
}

// indexColumns maps required column names to their position in header.
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		columns[strings.ToLower(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header", name)
		}
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int) (UsageRecord, bool) {
	field := func(name string) (string, bool) {
		idx := columns[name]
		if idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	app, ok := field("app_name")
	if !ok {
		return UsageRecord{}, false
	}
	rawDuration, ok := field("duration")
	if !ok {
		return UsageRecord{}, false
	}
	rawTimestamp, ok := field("timestamp")
	if !ok {
		return UsageRecord{}, false
	}

	duration, ok := parseDuration(rawDuration)
	if !ok {
		return UsageRecord{}, false
	}
	ts, ok := ParseTimestamp(rawTimestamp)
	if !ok {
		return UsageRecord{}, false
	}

	return UsageRecord{AppName: app, Duration: duration, Timestamp: ts}, true
}

// parseDuration accepts whole seconds. Numeric values with a fraction are
// truncated toward zero.
func parseDuration(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, n >= 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// ParseTimestamp parses a tracker timestamp in local time. Timestamps with an
// explicit offset are converted to local time so they bucket by local date and hour.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts.In(time.Local), true
		}
	}
	return time.Time{}, false
}
