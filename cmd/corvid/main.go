// Corvid is a UCI chess engine.
package main

import (
	"log"
	"os"
	"runtime"

	"github.com/corvid-chess/corvid/uci"
)

const (
	name   = "Corvid"
	author = "corvid-chess"
)

var (
	versionName = "dev"
	gitRevision = "(null)"
)

func main() {
	var logger = log.New(os.Stderr, "", log.LstdFlags)

	logger.Println(name,
		"VersionName", versionName,
		"GitRevision", gitRevision,
		"RuntimeVersion", runtime.Version())

	var driver = uci.New(os.Stdin, os.Stdout, os.Stderr)
	driver.Run()
}
