package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// SetupLogging configures logging.
// If filename is empty, logging is disabled (except log.Fatal/panic).
// If filename is set, logs go to that file and the bubbletea file logger is opened too.
func SetupLogging(filename string) (cleanup func(), err error) {
	if filename == "" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	// configure stdlib logger
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// tea.LogToFile prefixes its lines with "debug"
	tf, err := tea.LogToFile(filename, "debug")
	if err != nil {
		f.Close()
		return nil, err
	}

	// cleanup closes both files
	cleanup = func() {
		tf.Close()
		f.Close()
	}
	return cleanup, nil
}

// calldepth 2 keeps Lshortfile pointing at the caller, not this file
const calldepth = 2

func Debugf(format string, args ...any) {
	_ = log.Output(calldepth, "DEBUG "+fmt.Sprintf(format, args...))
}

func Infof(format string, args ...any) {
	_ = log.Output(calldepth, "INFO "+fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	_ = log.Output(calldepth, "WARN "+fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	_ = log.Output(calldepth, "ERROR "+fmt.Sprintf(format, args...))
}
