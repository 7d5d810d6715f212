package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/deadline"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads one line from reader with
// surrounding space trimmed. A final line without newline is still returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo. The caller
// owns the returned buffer and must wipe it.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// clearDeadline is the answer that removes a deadline when editing.
const clearDeadline = "-"

// readDeadline asks for a date and, optionally, a 12-hour time read on the
// wall clock of loc. An empty date means no deadline (or no change when
// editing). With allowClear, "-" as the date reports clear.
func readDeadline(reader *bufio.Reader, w io.Writer, loc *time.Location, allowClear bool) (d *time.Time, clear bool, err error) {
	prompt := "Deadline date (YYYY-MM-DD, empty for none)"
	if allowClear {
		prompt = "New deadline date (YYYY-MM-DD, '-' to remove, empty to keep)"
	}

	date, err := getSimpleText(reader, prompt, w)
	if err != nil {
		return nil, false, err
	}
	if date == "" {
		return nil, false, nil
	}
	if allowClear && date == clearDeadline {
		return nil, true, nil
	}

	hour, err := getSimpleText(reader, "Hour (1-12, empty for start of day)", w)
	if err != nil {
		return nil, false, err
	}

	var minute, meridiem string
	if hour != "" {
		if minute, err = getSimpleText(reader, "Minute (0-59, empty for :00)", w); err != nil {
			return nil, false, err
		}
		if meridiem, err = getSimpleText(reader, "AM or PM", w); err != nil {
			return nil, false, err
		}
	}

	d, err = deadline.Normalize(date, hour, minute, meridiem, loc)
	return d, false, err
}
