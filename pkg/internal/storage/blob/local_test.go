package blob_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/tablevault/pkg/configs"
	"github.com/yeisme/tablevault/pkg/internal/storage/blob"
)

func newLocalStore(t *testing.T) blob.Store {
	t.Helper()

	store, err := blob.NewStore(context.Background(), configs.BlobBackendLocal,
		&configs.BlobConfig{LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("create local store: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()
	content := "a,b\n1,2\n"

	if err := store.Put(ctx, "obj.csv", strings.NewReader(content), int64(len(content)), "text/csv"); err != nil {
		t.Fatalf("put: %v", err)
	}

	size, err := store.Stat(ctx, "obj.csv")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if size != int64(len(content)) {
		t.Fatalf("size = %d, want %d", size, len(content))
	}

	rc, err := store.Get(ctx, "obj.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if string(got) != content {
		t.Fatalf("got %q, want %q", got, content)
	}

	if err := store.Delete(ctx, "obj.csv"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Get(ctx, "obj.csv"); err == nil {
		t.Fatal("expected error getting deleted object")
	}

	// 删除不存在的对象视为成功
	if err := store.Delete(ctx, "obj.csv"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestLocalStoreOverwrite(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "k", strings.NewReader("old"), 3, ""); err != nil {
		t.Fatalf("put old: %v", err)
	}

	if err := store.Put(ctx, "k", strings.NewReader("newer"), 5, ""); err != nil {
		t.Fatalf("put new: %v", err)
	}

	size, err := store.Stat(ctx, "k")
	if err != nil || size != 5 {
		t.Fatalf("stat after overwrite: size=%d err=%v", size, err)
	}
}

func TestLocalStoreRejectsBadKeys(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "..", "../etc/passwd", "a/b", `a\b`} {
		if err := store.Put(ctx, key, strings.NewReader("x"), 1, ""); err == nil {
			t.Fatalf("put accepted bad key %q", key)
		}

		if _, err := store.Get(ctx, key); err == nil {
			t.Fatalf("get accepted bad key %q", key)
		}
	}
}

func TestLocalStoreHealthCheck(t *testing.T) {
	store := newLocalStore(t)

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check: %v", err)
	}
}
