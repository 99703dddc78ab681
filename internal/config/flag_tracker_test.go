package config

import (
	"reflect"
	"sync"
	"testing"

	"github.com/spf13/pflag"
)

func TestFlagTracker_Basic(t *testing.T) {
	ft := NewFlagTracker()

	if ft.WasSet("json") {
		t.Error("Expected flag 'json' to not be set initially")
	}

	ft.Set("json")
	if !ft.WasSet("json") {
		t.Error("Expected flag 'json' to be set after Set()")
	}
	if ft.Count() != 1 {
		t.Errorf("Expected count to be 1, got %d", ft.Count())
	}
	if !ft.AnySet("yaml", "json") {
		t.Error("Expected AnySet to find json")
	}
	if ft.AnySet("yaml", "text") {
		t.Error("Expected AnySet to be false")
	}
}

func TestFlagTracker_FromFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	fs.Int("workers", 0, "")
	fs.Bool("fail-fast", false, "")
	fs.String("method", "", "")

	if err := fs.Parse([]string{"--workers", "4", "--fail-fast"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	ft := NewFlagTrackerFromFlagSet(fs)
	if !ft.WasSet("workers") || !ft.WasSet("fail-fast") {
		t.Error("Expected changed flags to be tracked")
	}
	if ft.WasSet("method") {
		t.Error("Expected untouched flag to be untracked")
	}

	if NewFlagTrackerFromFlagSet(nil).Count() != 0 {
		t.Error("Expected empty tracker for nil flag set")
	}
}

func TestFlagTracker_Merge(t *testing.T) {
	ft := NewFlagTracker()
	ft.Set("format")
	ft.Set("include")
	ft.Set("exclude")

	if got := ft.MergeString("text", "json", "format"); got != "json" {
		t.Errorf("MergeString with set flag: got %s", got)
	}
	if got := ft.MergeString("text", "json", "other"); got != "text" {
		t.Errorf("MergeString with unset flag: got %s", got)
	}
	if got := ft.MergeInt(1, 9, "workers"); got != 1 {
		t.Errorf("MergeInt with unset flag: got %d", got)
	}
	if got := ft.MergeBool(true, false, "recursive"); !got {
		t.Error("MergeBool with unset flag should keep base")
	}

	base := []string{"**/*.yaml"}
	if got := ft.MergeStringSlice(base, []string{"*.json"}, "include"); !reflect.DeepEqual(got, []string{"*.json"}) {
		t.Errorf("MergeStringSlice with set flag: got %v", got)
	}
	if got := ft.MergeStringSlice(base, nil, "exclude"); !reflect.DeepEqual(got, base) {
		t.Errorf("MergeStringSlice with empty override: got %v", got)
	}
}

func TestFlagTracker_Concurrent(t *testing.T) {
	ft := NewFlagTracker()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ft.Set("flag")
		}()
		go func() {
			defer wg.Done()
			_ = ft.WasSet("flag")
		}()
	}
	wg.Wait()

	if ft.Count() != 1 {
		t.Errorf("Expected count 1, got %d", ft.Count())
	}
}
