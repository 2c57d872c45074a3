package main

import (
	"os"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
