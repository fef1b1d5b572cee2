// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typetag

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

type hostname struct {
	Host string
	Port int
}

type port uint16

func TestOfDistinct(t *testing.T) {
	tags := []Tag{
		Of[int](),
		Of[int64](),
		Of[float32](),
		Of[float64](),
		Of[string](),
		Of[bool](),
		Of[time.Duration](),
		Of[hostname](),
		Of[*hostname](),
		Of[port](),
		Of[uint16](),
		Of[[]string](),
	}
	seen := make(map[Tag]int)
	for i, tag := range tags {
		if tag == Invalid {
			t.Fatalf("tags[%d] is Invalid", i)
		}
		if j, ok := seen[tag]; ok {
			t.Errorf("tags[%d] and tags[%d] share tag %d", i, j, tag)
		}
		seen[tag] = i
	}
}

func TestOfStable(t *testing.T) {
	first := Of[hostname]()
	for range 10 {
		if got := Of[hostname](); got != first {
			t.Fatalf("Of[hostname]() = %d, want %d", got, first)
		}
	}
	if got := For(reflect.TypeOf(hostname{})); got != first {
		t.Errorf("For(hostname) = %d, want %d", got, first)
	}
}

func TestOfConcurrent(t *testing.T) {
	type fresh struct{ _ [3]byte }

	const n = 16
	got := make([]Tag, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = Of[fresh]()
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("goroutine %d minted %d, goroutine 0 minted %d", i, got[i], got[0])
		}
	}
}

func TestTagString(t *testing.T) {
	if got, want := Of[hostname]().String(), "typetag.hostname"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := Invalid.String(), "<invalid>"; got != want {
		t.Errorf("Invalid.String() = %q, want %q", got, want)
	}
	if Tag(1 << 30).Valid() {
		t.Error("unminted tag reported valid")
	}
	if For(nil) != Invalid {
		t.Error("For(nil) should be Invalid")
	}
}
