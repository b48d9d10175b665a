package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "valog: unexpected error: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()
	Execute()
}
