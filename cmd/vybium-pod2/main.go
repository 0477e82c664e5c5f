// Command vybium-pod2 signs records, stores them by content id and builds,
// verifies and proves Main Pods described by a YAML manifest.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vybium-pod2:", err)
		os.Exit(1)
	}
}
