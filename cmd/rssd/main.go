package main

import (
	"fmt"
	"os"

	"github.com/seantiz/rssd/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rssd: %v\n", err)
		os.Exit(1)
	}
}
