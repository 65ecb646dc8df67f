// Copyright (c) 2024 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// A Logger is a fairly minimal logging tool.
type Logger interface {
	// Notice is for messages that the user should see
	Noticef(format string, v ...any)
	// Debug is for messages that the user should be able to find if they're debugging something
	Debugf(format string, v ...any)
}

type nullLogger struct{}

func (nullLogger) Noticef(format string, v ...any) {}
func (nullLogger) Debugf(format string, v ...any)  {}

// NullLogger is a logger that does nothing
var NullLogger = nullLogger{}

var (
	logger     Logger = NullLogger
	loggerLock sync.Mutex
)

// Panicf notifies the user and then panics
func Panicf(format string, v ...any) {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	logger.Noticef("PANIC "+format, v...)
	panic(fmt.Sprintf(format, v...))
}

// Noticef notifies the user of something
func Noticef(format string, v ...any) {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	logger.Noticef(format, v...)
}

// Debugf records something in the debug log
func Debugf(format string, v ...any) {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	logger.Debugf(format, v...)
}

type lockedBytesBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (b *lockedBytesBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *lockedBytesBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// MockLogger replaces the existing logger with a buffer and returns
// a Stringer returning the log buffer content and a restore function.
func MockLogger(prefix string) (fmt.Stringer, func()) {
	buf := &lockedBytesBuffer{}
	oldLogger := SetLogger(New(buf, prefix))
	return buf, func() {
		SetLogger(oldLogger)
	}
}

// SetLogger sets the global logger to the given one. It must be called
// from a single goroutine before any logs are written.
func SetLogger(l Logger) (old Logger) {
	loggerLock.Lock()
	defer loggerLock.Unlock()
	old = logger
	logger = l
	return old
}

// timestampFormat is always rendered in UTC with millisecond precision.
const timestampFormat = "2006-01-02T15:04:05.000Z"

type defaultLogger struct {
	w      io.Writer
	prefix string

	buf []byte
}

// Debugf only prints if BOOTSEL_DEBUG is set.
func (l *defaultLogger) Debugf(format string, v ...any) {
	if os.Getenv("BOOTSEL_DEBUG") == "1" {
		l.Noticef("DEBUG "+format, v...)
	}
}

// Noticef alerts the user about something. The recovery console is the
// only log sink, so every line carries a timestamp.
func (l *defaultLogger) Noticef(format string, v ...any) {
	l.buf = l.buf[:0]
	l.buf = time.Now().UTC().AppendFormat(l.buf, timestampFormat)
	l.buf = append(l.buf, ' ')
	l.buf = append(l.buf, l.prefix...)
	l.buf = fmt.Appendf(l.buf, format, v...)
	if l.buf[len(l.buf)-1] != '\n' {
		l.buf = append(l.buf, '\n')
	}
	l.w.Write(l.buf)
}

// New creates a Logger using the given io.Writer and prefix (which is
// printed between the timestamp and the message).
func New(w io.Writer, prefix string) Logger {
	return &defaultLogger{
		w:      w,
		prefix: prefix,
		buf:    make([]byte, 0, 256),
	}
}
