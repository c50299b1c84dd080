package service

import (
	"io"
	"os"

	"dentalrcm/app/config"
)

// Version is reported by the version command.
const Version = "1.0.0"

// Streams and config loader, variables to allow testing.
var (
	stdin      io.Reader = os.Stdin
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	loadConfig           = config.Load
)
