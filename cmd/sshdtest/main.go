// Command sshdtest is a manual smoke-tool for the fixture library: it
// launches a disposable sshd, prints the connection coordinates, and tears
// the daemon down on interrupt. The library itself has no CLI surface.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
