// Package main provides the strided CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/born-ml/strided/internal/cpuinfo"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/storage"
)

const version = "v0.0.1-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command in args and returns the process exit code.
func run(args []string, w io.Writer) int {
	if len(args) == 0 {
		usage(w)
		return 0
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(w, "strided %s\n", version)
	case "info":
		info(w)
	case "help", "-h", "--help":
		usage(w)
	default:
		fmt.Fprintf(w, "unknown command %q\n\n", args[0])
		usage(w)
		return 2
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "strided - dense strided arrays for Go")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  info       Show kernel dispatch and parallelism settings")
}

func info(w io.Writer) {
	cfg := parallel.DefaultConfig()
	level := cpuinfo.CurrentLevel()
	fmt.Fprintf(w, "Dispatch level: %s", level)
	if detected := cpuinfo.DetectedLevel(); detected != level {
		fmt.Fprintf(w, " (detected %s)", detected)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vector width:   %d bytes\n", cpuinfo.CurrentWidth())
	fmt.Fprintf(w, "hwy target:     %s (%d bytes)\n", hwy.CurrentName(), hwy.CurrentWidth())
	for _, dt := range []storage.DType{storage.Int8, storage.Int32, storage.Float32, storage.Float64} {
		fmt.Fprintf(w, "Lanes %-8s %d\n", dt.String()+":", cpuinfo.Lanes(dt.Size()))
	}
	fmt.Fprintf(w, "L2 cache:       %d bytes\n", cfg.L2())
	fmt.Fprintf(w, "Workers:        %d\n", cfg.Workers())
}
