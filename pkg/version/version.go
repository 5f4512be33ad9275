package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var Version = "(dev)"

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if len(bi.Main.Version) > 0 {
			Version = bi.Main.Version
		}
	}
}

func String() string {
	return fmt.Sprintf("version %s %s %s/%s", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
