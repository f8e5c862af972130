// # cmd/a11ylint/main.go
package main

import (
	"os"

	"a11ylint/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
