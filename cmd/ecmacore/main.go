// Command ecmacore runs the ecmacore ECMAScript-subset interpreter
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/ssrlive/ecmacore/cmd/ecmacore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
