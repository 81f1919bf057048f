package clipboard

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/andareed/markwrite/logging"
	"github.com/mattn/go-isatty"
)

func copyOSC52(text string) error {
	if !osc52Supported(os.Getenv("TERM"), os.Stdout.Fd()) {
		logging.Warnf("Clipboard: OSC52 unavailable (stdout not TTY or TERM=dumb)")
		return errors.New("clipboard unavailable (OSC52 unsupported by terminal)")
	}
	if err := writeOSC52(os.Stdout, text); err != nil {
		logging.Warnf("Clipboard: OSC52 write failed: %v", err)
		return err
	}
	logging.Infof("Clipboard: copied via OSC52")
	return nil
}

func writeOSC52(w io.Writer, text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := io.WriteString(w, "\x1b]52;c;"+encoded+"\x07")
	return err
}

func osc52Supported(term string, fd uintptr) bool {
	if term == "" || strings.EqualFold(term, "dumb") {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
