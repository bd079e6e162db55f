package main

import (
	"context"
	"fmt"
	"os"

	"github.com/futig/resomate/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
