package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
)

func TestMapSortedResults(t *testing.T) {
	files := []string{"locus10.fas", "locus2.fas", "locus1.fas"}
	out, err := Map(context.Background(), Options{Threads: 3}, files, func(f string) (string, error) {
		return strings.ToUpper(f), nil
	})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if len(out) != 3 || out[0].File != "locus1.fas" || out[2].File != "locus10.fas" {
		t.Fatalf("order: %+v", out)
	}
	if out[1].Value != "LOCUS2.FAS" {
		t.Fatalf("value: %+v", out[1])
	}
}

func TestMapAggregatesErrors(t *testing.T) {
	files := []string{"a", "b", "c", "d"}
	_, err := Map(context.Background(), Options{Threads: 1}, files, func(f string) (int, error) {
		if f == "b" || f == "c" {
			return 0, fmt.Errorf("%s: boom", f)
		}
		return 1, nil
	})
	if err == nil {
		t.Fatal("want error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error: %v", err)
	}
}

func TestMapStopsTakingFilesAfterError(t *testing.T) {
	var ran atomic.Int32
	files := make([]string, 100)
	for i := range files {
		files[i] = fmt.Sprintf("f%03d", i)
	}
	_, err := Map(context.Background(), Options{Threads: 1}, files, func(f string) (int, error) {
		ran.Add(1)
		return 0, errors.New("always fails")
	})
	if err == nil {
		t.Fatal("want error")
	}
	if n := ran.Load(); n > 3 {
		t.Fatalf("pool kept feeding after failure: ran %d files", n)
	}
}

func TestMapRecoversPanics(t *testing.T) {
	_, err := Map(context.Background(), Options{Threads: 2}, []string{"x"}, func(f string) (int, error) {
		panic("worker bug")
	})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Fatalf("got %v", err)
	}
}

func TestMapCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Map(ctx, Options{Threads: 2}, []string{"a", "b"}, func(f string) (int, error) {
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestMapProgressEvents(t *testing.T) {
	var events atomic.Int32
	_, err := Map(context.Background(), Options{
		Threads:  2,
		Progress: func(ev Event, file string) { events.Add(1) },
	}, []string{"a", "b"}, func(f string) (int, error) { return 0, nil })
	if err != nil {
		t.Fatal(err)
	}
	if events.Load() != 4 { // started + completed per file
		t.Fatalf("events = %d", events.Load())
	}
}
