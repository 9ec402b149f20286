package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// stdinIsTerminal is a test seam for the terminal check on os.Stdin.
var stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The line is trimmed. If EOF occurs after some input was read, the partial
// line is returned.
//
// Example prompt format:
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

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo. A newline is printed after the read. When stdin is
// not a terminal the password is read as a plain line from reader, so piped
// input stays in order.
func GetPassword(reader *bufio.Reader, w io.Writer) (string, error) {
	if !stdinIsTerminal() {
		return GetSimpleText(reader, "Enter password:", w)
	}
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// parseAmount accepts a positive decimal, with either '.' or ',' as separator.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, client.ValidationError(fmt.Sprintf("invalid amount %q", s))
	}
	return v, nil
}

// parseDate reads a YYYY-MM-DD date or a full timestamp. An empty string
// yields fallback.
func parseDate(s string, fallback time.Time) (models.Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Timestamp{Time: fallback}, nil
	}
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		return models.Timestamp{}, client.ValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return ts, nil
}

// endOfDay moves a date-only bound to the last instant of that day so a
// "to" filter includes it.
func endOfDay(ts models.Timestamp) models.Timestamp {
	t := ts.Time
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && !t.IsZero() {
		t = t.Add(24*time.Hour - time.Second)
	}
	return models.Timestamp{Time: t}
}
