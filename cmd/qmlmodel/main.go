// Command qmlmodel loads QML scene descriptions, prints them and the renderer
// commands they produce, and previews them with an external renderer.
package main

import (
	"fmt"
	"os"

	"github.com/CrimsonAS/qmlmodel/internal/cli"
)

// Version is set at build time.
var Version = "dev"

func main() {
	root := cli.NewRootCmd()
	root.Version = Version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qmlmodel:", err)
		os.Exit(1)
	}
}
