package main

import (
	"fmt"
	"os"

	"prepauth/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "prepauth:", err)
		os.Exit(1)
	}
}
