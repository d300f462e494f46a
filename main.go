package main

import (
	"os"

	"github.com/abhisek/primemath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
