// bsit translates the tags of a BACnet object into RDF.
//
// Usage:
//
//	bsit translate <document> [--ntriples] [--save]
//	bsit check <document>
//	bsit serve [--addr=<addr>]
//	bsit runs [--stats]
//	bsit runs show <id> [--triples]
//	bsit runs export
//	bsit datatypes
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
