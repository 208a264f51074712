package dataset

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFromSlice_Collect(t *testing.T) {
	d := FromSlice([]int{1, 2, 3})
	got, err := Collect(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromSlice_Reiterable(t *testing.T) {
	d := FromSlice([]int{1, 2})
	first, err := Collect(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Collect(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(first, second) {
		t.Errorf("second pass %v differs from first %v", second, first)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestMap(t *testing.T) {
	d := FromSlice([]int{1, 2, 3})
	strs := Map(d, func(_ context.Context, n int) (string, error) {
		return fmt.Sprintf("#%d", n), nil
	})
	got, err := Collect(context.Background(), strs)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "#1" || got[2] != "#3" {
		t.Errorf("got %v", got)
	}
}

func TestMap_Error(t *testing.T) {
	d := FromSlice([]int{1, 2, 3})
	fail := Map(d, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad sample")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestMap_Lazy(t *testing.T) {
	calls := 0
	d := FromSlice([]int{1, 2, 3})
	mapped := Map(d, func(_ context.Context, n int) (int, error) {
		calls++
		return n, nil
	})
	if calls != 0 {
		t.Fatalf("expected no calls before pulling, got %d", calls)
	}
	iter := mapped.Iter(context.Background())
	defer iter.Close()
	if _, _, err := iter.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected exactly one call after one pull, got %d", calls)
	}
}

func TestFilter(t *testing.T) {
	d := FromSlice([]int{1, 2, 3, 4})
	evens := Filter(d, func(n int) bool { return n%2 == 0 })
	got, err := Collect(context.Background(), evens)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 4}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestConcat(t *testing.T) {
	a := FromSlice([]int{1, 2})
	b := FromSlice([]int{3})
	got, err := Collect(context.Background(), Concat(a, b))
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestForEach(t *testing.T) {
	d := FromSlice([]string{"a", "b"})
	var seen []string
	err := ForEach(context.Background(), d, func(_ context.Context, s string) error {
		seen = append(seen, s)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("got %v", seen)
	}
}

func TestForEach_SinkError(t *testing.T) {
	d := FromSlice([]int{1, 2, 3})
	err := ForEach(context.Background(), d, func(_ context.Context, n int) error {
		if n == 3 {
			return errors.New("sink full")
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
