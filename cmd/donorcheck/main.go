// Command donorcheck scores donor records offline with the same pipeline the
// HTTP server uses.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
