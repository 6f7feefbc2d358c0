package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	cmd := NewRootCommand(afero.NewOsFs())
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "pllgen: %v\n", err)
		os.Exit(1)
	}
}
