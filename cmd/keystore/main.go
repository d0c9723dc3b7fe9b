package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/absfs/keystore/cmd/keystore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "[error]", err)
		}
		os.Exit(1)
	}
}
