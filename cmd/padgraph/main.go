// Command padgraph inspects and renders pipeline graph descriptions with
// the same layout the padedit canvas uses.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
