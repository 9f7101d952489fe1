package version

import (
	"fmt"
	"io"
	"runtime"
)

const (
	Version = "0.3.0"
)

// ShowVersion prints the program version and the Go toolchain it was built with
func ShowVersion(w io.Writer) {
	fmt.Fprintf(w, "tqc v%s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
