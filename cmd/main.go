// Command focuspomo is a pomodoro timer that starts and pauses itself
// from the focused application.
package main

import (
	"fmt"
	"os"
)

const (
	appName = "focuspomo"
	appID   = "com.focuspomo.agent"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
