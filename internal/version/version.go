package version

import (
	"fmt"
	"runtime/debug"
)

func Get() string {
	var (
		revision string
		modified bool
	)

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unavailable"
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if revision == "" {
		return bi.Main.Version
	}
	if modified {
		return fmt.Sprintf("%s-dirty", revision)
	}
	return revision
}
