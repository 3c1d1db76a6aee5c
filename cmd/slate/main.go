// Package main provides the slate CLI: a kanban-style pipeline board for
// content creators, with a TUI and one-shot commands over the same store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
