// Package notify shows fatal errors to the user outside the log stream.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Title is the caption used for alerts.
const Title = "RapidFire"

// Output receives alerts on platforms without a native message box.
var Output io.Writer = os.Stderr

// Alert shows msg to the user and blocks until it has been acknowledged
// (Windows) or written (elsewhere).
func Alert(msg string) error {
	return alert(Title, msg)
}

// Alertf formats and shows a message.
func Alertf(format string, args ...any) error {
	return Alert(fmt.Sprintf(format, args...))
}

func writeAlert(w io.Writer, title, msg string) error {
	_, err := fmt.Fprintf(w, "[%s] %s\n", title, msg)
	return err
}
