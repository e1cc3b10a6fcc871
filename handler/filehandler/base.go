package filehandler

import (
	"bufio"
	"bytes"
	"os"
	"sync"

	"github.com/hydra-logger/hydra-logger/core"
	"github.com/hydra-logger/hydra-logger/formatter"
)

// fileBase holds the file and buffered writer shared by FileHandler's
// synchronous write path (used both by the writer goroutine and by the
// memory-pressure sync fallback). Log rotation/retention is an explicit
// spec non-goal, so fileBase only ever appends.
type fileBase struct {
	filename        string
	file            *os.File
	bufWriter       *bufio.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	bufferFormatter formatter.BufferFormatter

	mu      sync.Mutex
	syncBuf bytes.Buffer
}

func initFileBase(b *fileBase, filename string, f formatter.Formatter, file *os.File) {
	b.filename = filename
	b.file = file
	b.bufWriter = bufio.NewWriterSize(file, 4096)
	b.formatter = f

	b.writerFormatter, _ = f.(formatter.WriterFormatter)
	b.bufferFormatter, _ = f.(formatter.BufferFormatter)
	if b.bufferFormatter != nil {
		b.syncBuf.Grow(256)
	}
}

// write formats and appends entry to the file. Callers must not call
// write from more than one goroutine at a time without external
// synchronization: fileBase itself only guards against racing with
// HandleBytes and the sync-fallback path, both of which go through
// write/writeLine under the same mutex.
func (b *fileBase) write(entry *core.Entry) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bufferFormatter != nil {
		b.syncBuf.Reset()
		b.bufferFormatter.FormatEntry(entry, &b.syncBuf)
		n, err := b.bufWriter.Write(b.syncBuf.Bytes())
		return int64(n), err
	}

	if b.writerFormatter != nil {
		prevBuffered := b.bufWriter.Buffered()
		err := b.writerFormatter.FormatTo(entry, b.bufWriter)
		written := int64(b.bufWriter.Buffered() - prevBuffered)
		return written, err
	}

	data, err := b.formatter.Format(entry)
	if err != nil {
		return 0, err
	}
	n, err := b.bufWriter.Write(data)
	return int64(n), err
}

// writeLine writes a pre-formatted, newline-terminated line directly,
// bypassing the formatter entirely (the FastHandler path).
func (b *fileBase) writeLine(line []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.bufWriter.Write(line)
	if err == nil && (len(line) == 0 || line[len(line)-1] != '\n') {
		err = b.bufWriter.WriteByte('\n')
	}
	return err
}

func (b *fileBase) closeFile() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file == nil {
		return nil
	}
	if err := b.bufWriter.Flush(); err != nil {
		b.file.Close()
		return err
	}
	if err := b.file.Sync(); err != nil {
		b.file.Close()
		return err
	}
	return b.file.Close()
}
