package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgGreen)
	errorColor   = color.New(color.FgWhite, color.BgRed)
	commentColor = color.New(color.FgYellow)
)

// Info highlights a value the way informational spans are shown
func Info(format string, args ...any) string {
	return infoColor.Sprintf(format, args...)
}

// Comment highlights secondary text
func Comment(format string, args ...any) string {
	return commentColor.Sprintf(format, args...)
}

// Errorln writes a message prefixed with a highlighted Error label
func Errorln(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errorColor.Sprint("Error")+": "+fmt.Sprintf(format, args...))
}

// Title writes a heading underlined with '='
func Title(w io.Writer, title string) {
	fmt.Fprintln(w, infoColor.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}
