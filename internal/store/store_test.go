package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cvBuilder/internal/config"
	"cvBuilder/internal/database"
	"cvBuilder/internal/resume"
)

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{values: map[string]string{}} }

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func sampleSnapshot() resume.Snapshot {
	snap := resume.DefaultSnapshot()
	snap.Name = "سارة أحمد"
	snap.JobTitle = "مهندسة برمجيات"
	snap.Skills = []resume.Skill{{Name: "Go", Level: 90}}
	snap.Experience = []resume.Experience{{Company: "شركة", Role: "مطورة", Date: "2021", Desc: "خدمات"}}
	snap.Template = resume.TemplateClassic
	snap.Theme = resume.CustomTheme
	snap.CustomColor = "#aa3366"
	return snap
}

func openDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := database.InitDatabase(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "cv.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	return NewDatabase(db, "")
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"file":     NewFile(filepath.Join(t.TempDir(), "data", "cv.json")),
		"redis":    NewRedis(newFakeRedis(), ""),
		"database": openDatabase(t),
	}
}

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound before save, got %v", err)
			}

			want := sampleSnapshot()
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}

			want.Name = "اسم جديد"
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _ = s.Load(ctx)
			if got.Name != "اسم جديد" {
				t.Fatalf("overwrite not visible: %q", got.Name)
			}

			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after clear, got %v", err)
			}
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear must be idempotent: %v", err)
			}
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("save after clear: %v", err)
			}
		})
	}
}

func TestFile_CorruptIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFile(path).Load(context.Background()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestRedis_UsesKey(t *testing.T) {
	fake := newFakeRedis()
	s := NewRedis(fake, "")
	if err := s.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := fake.values[DefaultKey]; !ok {
		t.Fatalf("snapshot not stored under %q: %v", DefaultKey, fake.values)
	}
}

func TestLoad_FillsMissingPreferences(t *testing.T) {
	fake := newFakeRedis()
	fake.values[DefaultKey] = `{"name":"x","template":"retro","typography":{}}`
	snap, err := NewRedis(fake, "").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Template != resume.TemplateModern || snap.Typography.FontSize != resume.DefaultFontSize {
		t.Fatalf("preferences not normalised: %+v", snap.Preferences)
	}
}

func TestDatabase_ExportHistory(t *testing.T) {
	ctx := context.Background()
	d := openDatabase(t)
	entries := []ExportEntry{
		{RunID: "r1", Format: "pdf", Name: "cv_professional.pdf", Location: "/tmp/cv_professional.pdf", Pages: 2, Bytes: 1024},
		{RunID: "r2", Format: "jpg", Name: "cv_page_1.jpg", Location: "/tmp/cv_page_1.jpg", Pages: 1, Bytes: 512},
	}
	if err := d.RecordExports(ctx, entries); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := d.Exports(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "r2" || got[1].Name != "cv_professional.pdf" {
		t.Fatalf("unexpected history: %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatal("created_at not populated")
	}
}
