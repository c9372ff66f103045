package logging

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"
)

// Logger writes entries for one category to a Sink. A Logger owns its render
// buffer; calls on the same Logger are serialized, calls on different
// Loggers only contend for the Sink.
type Logger struct {
	sink     *Sink
	category string

	mu  sync.Mutex
	buf bytes.Buffer
}

// WriteLine writes msg at LevelInfo.
func (l *Logger) WriteLine(msg string) { l.WriteLineLevel(LevelInfo, msg) }

// WriteLineLevel writes msg at lvl.
func (l *Logger) WriteLineLevel(lvl Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.preamble(lvl)
	l.buf.WriteByte(' ')
	l.buf.WriteString(msg)
	l.buf.WriteByte('\n')
	l.sink.write(lvl, l.buf.Bytes())
}

// WriteLineWithBlockID writes msg at LevelInfo as the start of a block and
// returns the block id.
func (l *Logger) WriteLineWithBlockID(msg string) uint32 {
	return l.WriteLineWithBlockIDLevel(LevelInfo, msg)
}

// WriteLineWithBlockIDLevel writes msg at lvl as the start of a block and
// returns the block id.
func (l *Logger) WriteLineWithBlockIDLevel(lvl Level, msg string) uint32 {
	id := l.sink.NextBlockID()
	l.writeBlockLine(lvl, id, "<<", msg)
	return id
}

// WriteLineEndBlock writes msg at LevelInfo as the end of block id.
func (l *Logger) WriteLineEndBlock(id uint32, msg string) {
	l.WriteLineEndBlockLevel(id, LevelInfo, msg)
}

// WriteLineEndBlockLevel writes msg at lvl as the end of block id. An empty
// msg is written as "block end".
func (l *Logger) WriteLineEndBlockLevel(id uint32, lvl Level, msg string) {
	if msg == "" {
		msg = "block end"
	}
	l.writeBlockLine(lvl, id, ">>", msg)
}

func (l *Logger) writeBlockLine(lvl Level, id uint32, marker, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.preamble(lvl)
	l.buf.WriteByte(' ')
	var hex [8]byte
	l.buf.Write(appendBlockID(hex[:0], id))
	l.buf.WriteByte(' ')
	l.buf.WriteString(marker)
	l.buf.WriteByte(' ')
	l.buf.WriteString(msg)
	l.buf.WriteByte('\n')
	l.sink.write(lvl, l.buf.Bytes())
}

// appendBlockID renders id as eight upper-case hex digits.
func appendBlockID(dst []byte, id uint32) []byte {
	const digits = "0123456789ABCDEF"
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, digits[(id>>uint(shift))&0xF])
	}
	return dst
}

// preamble resets the buffer to "[HH:MM:SS][LEVEL  ][category ]".
func (l *Logger) preamble(lvl Level) {
	l.buf.Reset()
	l.buf.WriteByte('[')
	l.buf.WriteString(l.sink.now().Format("15:04:05"))
	l.buf.WriteString("][")
	name := lvl.String()
	l.buf.WriteString(name)
	pad(&l.buf, levelWidth-len(name))
	l.buf.WriteString("][")
	l.buf.WriteString(l.category)
	pad(&l.buf, int(l.sink.categoryWidth.Load())-len(l.category))
	l.buf.WriteByte(']')
}

func pad(buf *bytes.Buffer, n int) {
	for ; n > 0; n-- {
		buf.WriteByte(' ')
	}
}

// Verbosef formats and writes at LevelVerbose.
func (l *Logger) Verbosef(format string, args ...interface{}) {
	l.WriteLineLevel(LevelVerbose, fmt.Sprintf(format, args...))
}

// Infof formats and writes at LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.WriteLineLevel(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf formats and writes at LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.WriteLineLevel(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf formats and writes at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.WriteLineLevel(LevelError, fmt.Sprintf(format, args...))
}

// Block pairs a begin entry with exactly one end entry.
type Block struct {
	logger *Logger
	level  Level
	id     uint32
	msg    string
	once   sync.Once
}

// NewBlock begins a block at LevelInfo. Close it with defer:
//
//	defer log.NewBlock("loading plugins").Close()
func (l *Logger) NewBlock(msg string) *Block { return l.NewBlockLevel(LevelInfo, msg) }

// NewBlockLevel begins a block at lvl.
func (l *Logger) NewBlockLevel(lvl Level, msg string) *Block {
	return &Block{
		logger: l,
		level:  lvl,
		id:     l.WriteLineWithBlockIDLevel(lvl, msg),
		msg:    msg,
	}
}

// Close writes the end entry. Only the first call has an effect.
func (b *Block) Close() {
	b.once.Do(func() {
		b.logger.WriteLineEndBlockLevel(b.id, b.level, "done with "+b.msg)
	})
}

// BlockID parses an id rendered by a Logger.
func BlockID(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
