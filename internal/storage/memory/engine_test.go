package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/yndnr/relaychat-go/internal/storage"
)

func TestEngine_GetSetDelete(t *testing.T) {
	e := New()
	ctx := context.Background()

	if _, err := e.Get(ctx, []byte("alice")); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get() on empty engine error = %v, want ErrKeyNotFound", err)
	}

	if err := e.Set(ctx, []byte("alice"), []byte("v1")); err != nil {
		t.Fatal(err)
	}
	got, err := e.Get(ctx, []byte("alice"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v1" {
		t.Errorf("Get() = %q, want v1", got)
	}

	if err := e.Delete(ctx, []byte("alice")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Get(ctx, []byte("alice")); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrKeyNotFound", err)
	}
	if err := e.Delete(ctx, []byte("alice")); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestEngine_ValuesAreCopied(t *testing.T) {
	e := New()
	ctx := context.Background()

	value := []byte("abc")
	if err := e.Set(ctx, []byte("k"), value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, _ := e.Get(ctx, []byte("k"))
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %q", got)
	}
	got[1] = 'Y'

	again, _ := e.Get(ctx, []byte("k"))
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
}

func TestEngine_Scan(t *testing.T) {
	e := New()
	ctx := context.Background()

	for _, k := range []string{"user-c", "user-a", "user-b", "other"} {
		if err := e.Set(ctx, []byte(k), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{name: "all keys sorted", want: []string{"other", "user-a", "user-b", "user-c"}},
		{name: "prefix", prefix: "user-", want: []string{"user-a", "user-b", "user-c"}},
		{name: "no match", prefix: "zzz", want: nil},
		{name: "early stop", limit: 2, want: []string{"other", "user-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := e.Scan(ctx, []byte(tt.prefix), func(k, _ []byte) bool {
				got = append(got, string(k))
				return tt.limit == 0 || len(got) < tt.limit
			})
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_DropAll(t *testing.T) {
	e := New()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_ = e.Set(ctx, []byte(fmt.Sprintf("k%d", i)), []byte("v"))
	}
	if err := e.DropAll(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0 {
		t.Errorf("Len() after DropAll = %d, want 0", e.Len())
	}
}

func TestEngine_Closed(t *testing.T) {
	e := New()
	ctx := context.Background()

	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := e.Set(ctx, []byte("k"), nil); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
	if err := e.Scan(ctx, nil, func(_, _ []byte) bool { return true }); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Scan() after Close error = %v, want ErrClosed", err)
	}
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	e := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := []byte(fmt.Sprintf("k-%d-%d", id, j))
				_ = e.Set(ctx, key, key)
				_, _ = e.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	if e.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", e.Len())
	}
}
