package versioncheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMudEngine/blightscript/internal/events"
)

type fakeFetcher struct {
	tags []string
	err  error
}

func (f fakeFetcher) FetchTags() ([]string, error) { return f.tags, f.err }

func TestCheckNewVersionAvailable(t *testing.T) {
	bus := make(chan events.Event, 8)
	Check(fakeFetcher{tags: []string{"v1.0.0", "v1.2.0", "v1.1.0"}}, "v1.0.0", "http://example.org/releases", bus)

	ev1 := <-bus
	ev2 := <-bus
	assert.Equal(t, events.KindInfo, ev1.Kind)
	assert.Contains(t, ev1.Text, "v1.2.0")
	assert.Equal(t, "http://example.org/releases", ev2.Text)
}

func TestCheckNoNewVersion(t *testing.T) {
	bus := make(chan events.Event, 8)
	Check(fakeFetcher{tags: []string{"v1.0.0"}}, "v1.0.0", "", bus)

	select {
	case ev := <-bus:
		t.Fatalf("expected no event, got %+v", ev)
	default:
	}
}

func TestCheckNoData(t *testing.T) {
	bus := make(chan events.Event, 8)
	Check(fakeFetcher{tags: nil}, "v1.0.0", "", bus)

	select {
	case ev := <-bus:
		t.Fatalf("expected no event, got %+v", ev)
	default:
	}
}

func TestCheckFetchError(t *testing.T) {
	bus := make(chan events.Event, 8)
	Check(fakeFetcher{err: assertErr{}}, "v1.0.0", "", bus)

	select {
	case ev := <-bus:
		t.Fatalf("expected no event, got %+v", ev)
	default:
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestHTTPFetcherSplitsLines(t *testing.T) {
	lines := splitLines("v1.0.0\r\nv1.1.0\nv1.2.0")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"v1.0.0", "v1.1.0", "v1.2.0"}, lines)
}
