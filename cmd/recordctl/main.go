/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"os"

	"github.com/suparena/activerecord/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
