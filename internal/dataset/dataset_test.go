package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/awaistahir/smart-wash/internal/config"
	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/awaistahir/smart-wash/internal/store"
	"github.com/rs/zerolog"
)

const sampleCSV = ` hour , usage_count ,congestion
# exported from the laundry log,,
# hour,count,label
7,1,low
10,3,medium
10,2,medium
19.0,8,very_high
`

func TestParseCSV(t *testing.T) {
	skip := map[int]bool{1: true, 2: true}

	records, err := ParseCSV(context.Background(), strings.NewReader(sampleCSV), skip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []engine.UsageRecord{
		{Hour: 7, UsageCount: 1, Congestion: engine.CongestionLow},
		{Hour: 10, UsageCount: 3, Congestion: engine.CongestionMedium},
		{Hour: 10, UsageCount: 2, Congestion: engine.CongestionMedium},
		{Hour: 19, UsageCount: 8, Congestion: engine.CongestionVeryHigh},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d: got %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestParseCSVInputQuirks(t *testing.T) {
	skip := map[int]bool{1: true, 2: true}

	tests := []struct {
		name  string
		input string
		want  []engine.UsageRecord
	}{
		{
			name:  "byte order mark before header",
			input: "\ufeffhour,usage_count,congestion\nx,,\ny,,\n10,2,medium\n",
			want:  []engine.UsageRecord{{Hour: 10, UsageCount: 2, Congestion: engine.CongestionMedium}},
		},
		{
			name:  "skipped note with stray quotes",
			input: "hour,usage_count,congestion\nnote: the \"busy\" hours,,\ny,,\n8,1,low\n",
			want:  []engine.UsageRecord{{Hour: 8, UsageCount: 1, Congestion: engine.CongestionLow}},
		},
		{
			name:  "blank line counts toward skipped rows",
			input: "hour,usage_count,congestion\n\nnote,,\n9,3,high\n",
			want:  []engine.UsageRecord{{Hour: 9, UsageCount: 3, Congestion: engine.CongestionHigh}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseCSV(context.Background(), strings.NewReader(tt.input), skip)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(records), len(tt.want))
			}
			for i := range tt.want {
				if records[i] != tt.want[i] {
					t.Errorf("record %d: got %+v, want %+v", i, records[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseCSVReportsFileLine(t *testing.T) {
	input := "hour,usage_count,congestion\nnote,,\nnote,,\n7,1,low\nseven,1,low\n"

	_, err := ParseCSV(context.Background(), strings.NewReader(input), map[int]bool{1: true, 2: true})
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("got error %v, want %v", err, ErrMalformedRow)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error %q should name line 4", err)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "missing congestion column",
			input:   "hour,usage_count\n7,1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "hour not a number",
			input:   "hour,usage_count,congestion\nseven,1,low\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "short row",
			input:   "hour,usage_count,congestion\n7,1\n",
			wantErr: ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(context.Background(), strings.NewReader(tt.input), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), DefaultSkipRows)
	if _, err := src.Load(context.Background()); err == nil {
		t.Errorf("expected error for missing file")
	}
}

// countingSource counts how often the underlying data is read
type countingSource struct {
	id      string
	records []engine.UsageRecord
	loads   int
}

func (s *countingSource) ID(ctx context.Context) string { return s.id }
func (s *countingSource) Kind() string                  { return "test" }
func (s *countingSource) Load(ctx context.Context) ([]engine.UsageRecord, error) {
	s.loads++
	return s.records, nil
}

func TestLoaderCachesBySourceID(t *testing.T) {
	src := &countingSource{
		id:      "a",
		records: []engine.UsageRecord{{Hour: 8, Congestion: engine.CongestionLow}},
	}

	loader, err := NewLoader(src, 2, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := loader.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if src.loads != 1 {
		t.Errorf("source loaded %d times, want 1", src.loads)
	}

	src.id = "b"
	if _, err := loader.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.loads != 2 {
		t.Errorf("source loaded %d times after id change, want 2", src.loads)
	}
}

func TestLoaderUsesRedisSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cache, err := NewRedisCache(ctx, RedisOptions{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer cache.Close()

	src := &countingSource{
		id:      "shared",
		records: []engine.UsageRecord{{Hour: 12, UsageCount: 4, Congestion: engine.CongestionHigh}},
	}

	// First replica populates redis
	first, err := NewLoader(src, 2, cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	if _, err := first.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !mr.Exists(redisKeyPrefix + "shared") {
		t.Fatalf("snapshot not written to redis")
	}

	// Second replica reads the snapshot without touching the source
	second, err := NewLoader(src, 2, cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	records, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.loads != 1 {
		t.Errorf("source loaded %d times, want 1", src.loads)
	}
	if len(records) != 1 || records[0].Congestion != engine.CongestionHigh {
		t.Errorf("unexpected records from redis: %+v", records)
	}
}

func TestCSVSourceIDChangesWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laundry.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	src := NewCSVSource(path, DefaultSkipRows)
	ctx := context.Background()
	if !strings.HasPrefix(src.ID(ctx), "csv:"+path+"@") {
		t.Errorf("unexpected id %q", src.ID(ctx))
	}

	records, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("got %d records, want 4", len(records))
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "laundry.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	dbPath := filepath.Join(dir, "smartwash.db")
	st, err := store.NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	imported := []engine.UsageRecord{{Hour: 8, UsageCount: 2, Congestion: engine.CongestionHigh}}
	if err := st.ReplaceRecords(context.Background(), imported); err != nil {
		t.Fatalf("ReplaceRecords failed: %v", err)
	}
	st.Close()

	tests := []struct {
		name      string
		cfg       config.Config
		wantCount int
	}{
		{
			name: "csv",
			cfg: config.Config{
				Dataset: config.DatasetConfig{Source: "csv", Path: csvPath, SkipRows: []int{1, 2}},
			},
			wantCount: 4,
		},
		{
			name: "sqlite",
			cfg: config.Config{
				Dataset: config.DatasetConfig{Source: "sqlite"},
				Store:   config.StoreConfig{Path: dbPath},
			},
			wantCount: 1,
		},
		{
			name: "redis unreachable falls back to source",
			cfg: config.Config{
				Dataset: config.DatasetConfig{Source: "csv", Path: csvPath, SkipRows: []int{1, 2}},
				Cache:   config.CacheConfig{Redis: config.RedisConfig{Enabled: true, Addr: "127.0.0.1:1", TTL: "1m"}},
			},
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, closeFn, err := Open(context.Background(), &tt.cfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer closeFn()

			records, err := loader.Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(records) != tt.wantCount {
				t.Errorf("got %d records, want %d", len(records), tt.wantCount)
			}
		})
	}
}
