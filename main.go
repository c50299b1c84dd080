package main

import (
	"os"

	"dentalrcm/service"
)

// exit is a variable to allow testing.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the service commands and exits with their status.
func RealMain() {
	exit(service.HandleCommand(os.Args[1:]))
}
