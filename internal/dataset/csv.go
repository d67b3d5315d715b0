package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/awaistahir/smart-wash/internal/engine"
)

var (
	ErrMissingColumn = errors.New("dataset is missing a required column")
	ErrMalformedRow  = errors.New("dataset row is malformed")
)

// DefaultSkipRows are the data lines after the header that hold notes, not samples
var DefaultSkipRows = []int{1, 2}

// CSVSource reads the historical table from a CSV file with a header row
type CSVSource struct {
	path     string
	skipRows map[int]bool
}

// NewCSVSource creates a source for path. skipRows are 1-based line numbers counted
// after the header line (line 0), matching how the table was originally exported.
func NewCSVSource(path string, skipRows []int) *CSVSource {
	skip := make(map[int]bool, len(skipRows))
	for _, r := range skipRows {
		skip[r] = true
	}
	return &CSVSource{path: path, skipRows: skip}
}

// ID identifies the file and its modification time so edits invalidate caches
func (s *CSVSource) ID(ctx context.Context) string {
	info, err := os.Stat(s.path)
	if err != nil {
		return "csv:" + s.path
	}
	return fmt.Sprintf("csv:%s@%d", s.path, info.ModTime().UnixNano())
}

// Kind returns the source type for metrics
func (s *CSVSource) Kind() string {
	return "csv"
}

// Load reads and parses the file
func (s *CSVSource) Load(ctx context.Context) ([]engine.UsageRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	return ParseCSV(ctx, f, s.skipRows)
}

// utf8BOM is written by spreadsheet exports in front of the header
const utf8BOM = "\ufeff"

// ParseCSV parses usage records from r. skipRows are physical line numbers after
// the header and are dropped before CSV parsing, so a note line may contain
// anything, including stray quotes. Blank lines still count toward the numbering.
func ParseCSV(ctx context.Context, r io.Reader, skipRows map[int]bool) ([]engine.UsageRecord, error) {
	body, lines, err := dropSkippedLines(r, skipRows)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	hourCol, ok := columns["hour"]
	if !ok {
		return nil, fmt.Errorf("%w: hour", ErrMissingColumn)
	}
	usageCol, ok := columns["usage_count"]
	if !ok {
		return nil, fmt.Errorf("%w: usage_count", ErrMissingColumn)
	}
	congestionCol, ok := columns["congestion"]
	if !ok {
		return nil, fmt.Errorf("%w: congestion", ErrMissingColumn)
	}

	records := []engine.UsageRecord{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("reading line %d: %w", physicalLine(lines, parseErr.StartLine), err)
		}
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %w", err)
		}

		fieldLine, _ := reader.FieldPos(0)
		line := physicalLine(lines, fieldLine)

		if len(row) <= hourCol || len(row) <= usageCol || len(row) <= congestionCol {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedRow, line, len(row))
		}

		hour, err := parseInt(row[hourCol])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d hour %q", ErrMalformedRow, line, row[hourCol])
		}
		usage, err := parseInt(row[usageCol])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d usage_count %q", ErrMalformedRow, line, row[usageCol])
		}

		records = append(records, engine.UsageRecord{
			Hour:       hour,
			UsageCount: usage,
			// labels are kept verbatim; anything unrecognised scores 0
			Congestion: engine.CongestionLevel(row[congestionCol]),
		})
	}

	return records, nil
}

// dropSkippedLines returns the input without the skipped lines and a BOM, plus the
// physical line number (header is 0) of every kept line
func dropSkippedLines(r io.Reader, skipRows map[int]bool) (string, []int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b strings.Builder
	var lines []int
	for line := 0; scanner.Scan(); line++ {
		text := scanner.Text()
		if line == 0 {
			text = strings.TrimPrefix(text, utf8BOM)
		} else if skipRows[line] {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("reading dataset: %w", err)
	}

	return b.String(), lines, nil
}

// physicalLine maps a 1-based line of the filtered input back to the file
func physicalLine(lines []int, filtered int) int {
	if filtered >= 1 && filtered <= len(lines) {
		return lines[filtered-1]
	}
	return filtered
}

// parseInt accepts integers and integral floats such as "10.0"
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
