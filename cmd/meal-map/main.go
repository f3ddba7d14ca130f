// cmd/meal-map/main.go
package main

import (
	"fmt"
	"os"
)

var version = "1.0.0"

func main() {
	if err := SetupCommands(&App{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
