package main

import (
	"os"

	"github.com/osvaldoandrade/w3bstitch/pkg/w3bstitch"
)

func main() {
	os.Exit(w3bstitch.Execute())
}
