// Package versioncheck implements the representative background worker
// example from spec.md §4.6: a best-effort check for a newer release,
// reporting via two Info events when one is found.
package versioncheck

import (
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/GoMudEngine/blightscript/internal/events"
)

// Fetcher retrieves the raw list of release tag names; swappable in
// tests, and the real implementation is a best-effort HTTP GET against a
// releases endpoint.
type Fetcher interface {
	FetchTags() ([]string, error)
}

// HTTPFetcher hits releasesURL and expects one tag name per line — a
// minimal wire format chosen so the worker needs no JSON/XML parsing
// dependency for what is, per spec.md §4.6, a best-effort notice.
type HTTPFetcher struct {
	ReleasesURL string
	Client      *http.Client
}

func (f HTTPFetcher) FetchTags() ([]string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	resp, err := client.Get(f.ReleasesURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return splitLines(string(body)), nil
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, trimCR(s[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, trimCR(s[start:]))
	}
	return out
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

// Check runs one pass: fetch tags, sort them in descending lexicographic
// order (per spec.md §4.6's explicit instruction — this is a stable
// tie-break over a bounded `v<major>.<minor>.<patch>` tag scheme, not a
// generic semver compare, and is deliberately NOT upgraded to use
// internal/version.Version.Compare even though that comparator exists
// elsewhere in this module), and if the newest tag is lexicographically
// greater than running, push a notice plus a URL onto the bus.
func Check(fetcher Fetcher, runningVersion, releasePageURL string, bus chan<- events.Event) {
	tags, err := fetcher.FetchTags()
	if err != nil || len(tags) == 0 {
		return
	}

	sort.Sort(sort.Reverse(sort.StringSlice(tags)))
	latest := tags[0]

	if latest == runningVersion {
		return
	}
	if latest < runningVersion {
		return
	}

	bus <- events.Info("a newer version is available: " + latest)
	bus <- events.Info(releasePageURL)
}

// Run spawns the check as a named detached goroutine — spec.md §4.6's
// "spawned as a named detached thread" — firing once after an initial
// delay (giving the connection a moment to settle before doing network
// I/O of our own).
func Run(fetcher Fetcher, runningVersion, releasePageURL string, bus chan<- events.Event) {
	go func() {
		time.Sleep(2 * time.Second)
		Check(fetcher, runningVersion, releasePageURL, bus)
	}()
}
