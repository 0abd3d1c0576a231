// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"ashlar/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
