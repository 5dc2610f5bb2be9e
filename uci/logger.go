package uci

import (
	"fmt"
	"io"
	"log"
)

// logger splits diagnostic output from protocol output: everything
// that is not a UCI wire message goes to stderr, matching the
// teacher's log.New(os.Stderr, ...) convention in counter/main.go;
// "info string" lines are the UCI-visible half and are written to out
// (stdout in production, a buffer in tests).
type logger struct {
	stderr *log.Logger
	out    io.Writer
}

func newLogger(stderr io.Writer, out io.Writer) *logger {
	return &logger{stderr: log.New(stderr, "", log.LstdFlags), out: out}
}

func (l *logger) debugf(format string, args ...interface{}) {
	l.stderr.Printf(format, args...)
}

func (l *logger) infoString(msg string) {
	fmt.Fprintf(l.out, "info string %s\n", msg)
}
