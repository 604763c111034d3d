package fswatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/GoMudEngine/blightscript/internal/events"
)

func TestWatchReportsWriteAsFSChange(t *testing.T) {
	dir := t.TempDir()
	bus := make(chan events.Event, 16)

	w, err := Watch(dir, bus)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(dir, "script.js")
	require.NoError(t, os.WriteFile(target, []byte("trigger.add('x', function(){});"), 0644))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-bus:
			if ev.Kind == events.KindFSChange && ev.FSPath == target {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for FSChange event")
		}
	}
}

func TestOpNameMapsKnownOps(t *testing.T) {
	require.Equal(t, "write", opName(fsnotify.Write))
	require.Equal(t, "create", opName(fsnotify.Create))
	require.Equal(t, "remove", opName(fsnotify.Remove))
	require.Equal(t, "unknown", opName(fsnotify.Op(0)))
}
