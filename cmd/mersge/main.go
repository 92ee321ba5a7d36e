package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/chojs23/mersge/internal/cli"
	"github.com/chojs23/mersge/internal/run"
)

// version is overridden by the release build via -ldflags.
var version = "dev"

func main() {
	opts, err := cli.Parse(os.Args[1:])
	switch {
	case errors.Is(err, cli.ErrHelp):
		fmt.Println(cli.Usage())
		return
	case errors.Is(err, cli.ErrVersion):
		fmt.Printf("mersge %s\n", buildVersion())
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(run.Run(context.Background(), opts))
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return version
}
