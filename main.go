// Command blightscript runs the scripting & event core of an interactive
// MUD client: it owns the scripting host, the network session and the
// background workers, and drives them all from one main loop, per the
// concurrency model in SPEC_FULL.md §5.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GoMudEngine/blightscript/internal/client"
	"github.com/GoMudEngine/blightscript/internal/config"
	"github.com/GoMudEngine/blightscript/internal/mudlog"
	"github.com/GoMudEngine/blightscript/internal/version"
)

// Should be kept in lockstep with github releases.
const runningVersion = "v0.1.0"

const releasePageURL = "https://github.com/GoMudEngine/blightscript/releases"

func main() {
	if _, err := version.Parse(runningVersion); err != nil {
		fmt.Fprintf(os.Stderr, "invalid build version %q: %v\n", runningVersion, err)
		os.Exit(1)
	}

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	scriptDir := flag.String("scripts", "", "directory to watch for script changes (optional)")
	flag.Parse()

	if err := config.Load(*configPath); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	c := config.Get()

	mudlog.Setup(c.Logging.Path, c.Logging.MaxSizeMB, c.Logging.MaxBackups, c.Logging.MaxAgeDays, c.Logging.Compress)

	cl, err := client.New(c)
	if err != nil {
		mudlog.Error("failed to start", "err", err)
		os.Exit(1)
	}

	cl.CheckForUpdate(runningVersion, releasePageURL)

	if *scriptDir != "" {
		if err := cl.WatchScripts(*scriptDir); err != nil {
			mudlog.Error("failed to watch scripts", "dir", *scriptDir, "err", err)
		}
	}

	if c.Connection.Host != "" {
		cl.SendInput(fmt.Sprintf("/connect %s %d %t %t", c.Connection.Host, c.Connection.Port, c.Connection.TLS, c.Connection.VerifyCert))
	}

	cl.Run()
}
