package main

import (
	"fmt"
	"os"

	"github.com/de-tools/ewaste-reports/pkg/runtime/terminal"
	"github.com/de-tools/ewaste-reports/pkg/services/source"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry:  source.NewDefaultRegistry(),
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
