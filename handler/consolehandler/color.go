package consolehandler

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/hydra-logger/hydra-logger/core"
)

var levelColor = [...]string{
	core.DebugLevel:    "\x1b[36m", // cyan
	core.InfoLevel:     "\x1b[32m", // green
	core.WarnLevel:     "\x1b[33m", // yellow
	core.ErrorLevel:    "\x1b[31m", // red
	core.CriticalLevel: "\x1b[35m", // magenta
	core.FatalLevel:    "\x1b[35m", // magenta
	core.PanicLevel:    "\x1b[35m", // magenta
}

const colorReset = "\x1b[0m"

// supportsColor reports whether f is a terminal capable of rendering
// ANSI color codes.
func supportsColor(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorize wraps line with the ANSI color for level, or returns line
// unchanged for a level outside the known table — coloring failure
// degrades to uncolored output, it never drops the record.
func colorize(level core.Level, line []byte) []byte {
	idx := int(level)
	if idx < 0 || idx >= len(levelColor) || levelColor[idx] == "" {
		return line
	}
	out := make([]byte, 0, len(line)+len(levelColor[idx])+len(colorReset))
	out = append(out, levelColor[idx]...)
	out = append(out, line...)
	out = append(out, colorReset...)
	return out
}
