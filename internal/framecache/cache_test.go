package framecache

import (
	"fmt"
	"sync"
	"testing"

	"gridviz/internal/render"
)

func artifact(tag string) *render.Artifact {
	return &render.Artifact{Method: render.MethodRaster, ImageURI: tag}
}

func TestPublishFirstWriteWins(t *testing.T) {
	c := New(4)

	if !c.Publish(1, artifact("first")) {
		t.Fatal("first publish should win the slot")
	}
	if c.Publish(1, artifact("second")) {
		t.Error("second publish to an occupied slot should be dropped")
	}
	got := c.Get(1)
	if got == nil {
		t.Fatal("frame 1 should be present")
	}
	if got.ImageURI != "first" {
		t.Errorf("Get returned %q, want the first published artifact", got.ImageURI)
	}
}

func TestGetAbsent(t *testing.T) {
	c := New(3)
	if c.Get(0) != nil {
		t.Error("empty slot should report absent")
	}
	if c.Present(2) {
		t.Error("empty slot should not be present")
	}
	if c.Get(-1) != nil {
		t.Error("negative index should report absent")
	}
	if c.Get(3) != nil {
		t.Error("out of range index should report absent")
	}
	if c.Publish(3, artifact("x")) {
		t.Error("publish out of range should be rejected")
	}
	if c.Publish(0, nil) {
		t.Error("publishing nil should be rejected")
	}
}

func TestMissing(t *testing.T) {
	c := New(10)
	c.Publish(2, artifact("a"))
	c.Publish(4, artifact("b"))

	tests := []struct {
		name         string
		start, count int
		want         []int
	}{
		{"interior window", 1, 5, []int{1, 3, 5}},
		{"clamped past end", 8, 5, []int{8, 9}},
		{"fully cached", 2, 1, nil},
		{"before start", -3, 4, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Missing(tt.start, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("Missing(%d, %d) = %v, want %v", tt.start, tt.count, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Missing(%d, %d) = %v, want %v", tt.start, tt.count, got, tt.want)
				}
			}
		})
	}
}

func TestConcurrentPublish(t *testing.T) {
	const n = 64
	c := New(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Publish(i, artifact(fmt.Sprintf("frame-%d", i)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		got := c.Get(i)
		if got == nil {
			t.Fatalf("frame %d missing after concurrent publish", i)
		}
		if want := fmt.Sprintf("frame-%d", i); got.ImageURI != want {
			t.Errorf("frame %d = %q, want %q", i, got.ImageURI, want)
		}
	}
	present, total := c.Stats()
	if present != n || total != n {
		t.Errorf("Stats() = (%d, %d), want (%d, %d)", present, total, n, n)
	}
}

func TestContendedSlot(t *testing.T) {
	c := New(1)

	var wg sync.WaitGroup
	wins := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag := fmt.Sprintf("writer-%d", i)
			if c.Publish(0, artifact(tag)) {
				wins <- tag
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winning writer, got %d", len(winners))
	}
	if got := c.Get(0); got.ImageURI != winners[0] {
		t.Errorf("cached artifact %q does not match the winning writer %q", got.ImageURI, winners[0])
	}
}
