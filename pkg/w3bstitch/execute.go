package w3bstitch

import "github.com/osvaldoandrade/w3bstitch/internal/cli"

// Execute runs the W3b Stitch CLI entrypoint.
func Execute() int {
	return cli.Execute()
}
