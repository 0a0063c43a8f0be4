package main

import (
	"fmt"
	"os"

	"github.com/hayeah/collect"
)

func main() {
	run, err := collect.InitMain()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing collect: %v\n", err)
		os.Exit(1)
	}

	run()
}
