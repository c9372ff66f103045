package logging

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// rotatedLayout names rotated files after their creation time.
const rotatedLayout = "20060102150405"

// Options holds the parts of a Sink that are not loaded from Settings.
type Options struct {
	// Console receives entries at or above the configured level. Defaults to
	// os.Stdout; set io.Discard to disable the echo.
	Console io.Writer
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Sink is the single append-only log file shared by every Logger of a
// process.
type Sink struct {
	dir       string
	current   string
	threshold Level
	console   io.Writer
	now       func() time.Time
	session   uuid.UUID

	// categoryWidth only grows. Lines already written keep their padding.
	categoryWidth atomic.Int32

	mu   sync.Mutex
	file *os.File
}

// Open prepares settings.LogsPath, rotates a current file left over from an
// earlier day and opens the current file for appending.
func Open(settings Settings, opts Options) (*Sink, error) {
	s := &Sink{
		dir:       settings.LogsPath,
		current:   filepath.Join(settings.LogsPath, "0000current."+variant+".log"),
		threshold: settings.LogLevel,
		console:   opts.Console,
		now:       opts.Now,
		session:   uuid.New(),
	}
	if s.console == nil {
		s.console = os.Stdout
	}
	if s.now == nil {
		s.now = time.Now
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", s.dir, err)
	}
	if err := s.rotate(); err != nil {
		return nil, err
	}

	mode := settings.FileMode
	if mode == 0 {
		mode = 0644
	}
	f, err := os.OpenFile(s.current, os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.current, err)
	}
	s.file = f

	s.banner(fmt.Sprintf("session %s opened by pid %d", s.session, os.Getpid()))
	return s, nil
}

// rotate moves the current file aside when it was created on another day.
func (s *Sink) rotate() error {
	info, err := os.Stat(s.current)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.current, err)
	}

	created := birthTime(s.current, info)
	if sameDay(created, s.now()) {
		return nil
	}

	var target string
	for i := 0; ; i++ {
		target = filepath.Join(s.dir, fmt.Sprintf("%s.%d.%s.log", created.Format(rotatedLayout), i, variant))
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
	}
	if err := os.Rename(s.current, target); err != nil {
		return fmt.Errorf("failed to rotate %s: %w", s.current, err)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CurrentFile returns the path entries are appended to.
func (s *Sink) CurrentFile() string { return s.current }

// Session returns the identifier written in the session banner.
func (s *Sink) Session() uuid.UUID { return s.session }

// NextBlockID returns a random block correlation id.
func (s *Sink) NextBlockID() uint32 { return rand.Uint32() }

// banner writes a VERBOSE entry under the "logging" category without
// registering it, so it does not widen the category column.
func (s *Sink) banner(msg string) {
	(&Logger{sink: s, category: "logging"}).WriteLineLevel(LevelVerbose, msg)
}

// Logger returns a Logger writing entries under category.
func (s *Sink) Logger(category string) *Logger {
	s.growCategoryWidth(len(category))
	return &Logger{sink: s, category: category}
}

func (s *Sink) growCategoryWidth(n int) {
	for {
		cur := s.categoryWidth.Load()
		if int(cur) >= n || s.categoryWidth.CompareAndSwap(cur, int32(n)) {
			return
		}
	}
}

// write appends one rendered line and echoes it to the console when lvl is
// at or above the configured threshold.
func (s *Sink) write(lvl Level, line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		_, _ = s.file.Write(line)
	}
	if lvl >= s.threshold {
		_, _ = s.console.Write(line)
	}
}

// Close closes the current file. Entries written afterwards only reach the
// console.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
