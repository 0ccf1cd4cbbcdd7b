// Command backend serves the API.
//
// Running it without a subcommand starts the development server on
// localhost:8000 with reload on .env changes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
