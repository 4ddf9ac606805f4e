package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/relaychat-go/internal/core/domain"
	"github.com/yndnr/relaychat-go/internal/storage"
	"github.com/yndnr/relaychat-go/internal/storage/memory"
	"github.com/yndnr/relaychat-go/internal/telemetry/logger"
	"github.com/yndnr/relaychat-go/pkg/token"
)

// TokenCounts is the number of stored session tokens per run.
var TokenCounts = []int{1000, 10000, 50000}

// engineFactory opens a fresh KV engine for one benchmark.
type engineFactory struct {
	name string
	open func(b *testing.B, store string) storage.KVEngine
}

var engines = []engineFactory{
	{name: "memory", open: func(b *testing.B, _ string) storage.KVEngine {
		return memory.New()
	}},
	{name: "badger", open: openBadger},
}

func openBadger(b *testing.B, store string) storage.KVEngine {
	b.Helper()
	e, err := storage.NewBadgerEngine(store, storage.DefaultKVConfig(b.TempDir()), logger.Discard())
	if err != nil {
		b.Fatalf("open badger: %v", err)
	}
	b.Cleanup(func() { e.Close() })
	return e
}

// prefillSessions stores count tokens spread over 100 users and returns them.
func prefillSessions(ctx context.Context, b *testing.B, store *storage.SessionStore, count int) []string {
	b.Helper()
	tokens := make([]string, count)
	for i := range tokens {
		tok, err := token.GenerateSessionToken()
		if err != nil {
			b.Fatal(err)
		}
		sess := domain.NewSessionToken(tok, fmt.Sprintf("user-%d", i%100))
		if err := store.Put(ctx, sess); err != nil {
			b.Fatalf("prefill: %v", err)
		}
		tokens[i] = tok
	}
	return tokens
}

// reportMemory reports heap usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}
