package main

import (
	"fmt"
	"os"

	"letterly/cmd/handlers"
)

func main() {
	if err := handlers.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
