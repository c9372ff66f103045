// Package bootstrap wires the configuration store and the logger of a
// process together.
//
// Initialization happens in two explicit phases. New creates the converter
// registry and a Store that reports through a plain console logger, then
// loads the logger's own settings with it. OpenLogs opens the shared log file
// with those settings and switches the Store over to it.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "git.sr.ht/~spc/go-log"

	"github.com/redhatinsights/confkit/internal/conf"
	"github.com/redhatinsights/confkit/internal/logging"
)

// StoreCategory is the category the Store logs under once logs are open.
const StoreCategory = "StaticConf"

// Options configures a Process.
type Options struct {
	// ConfigDir holds logger.json and any other settings files. Defaults to
	// "config".
	ConfigDir string
	// Console receives bootstrap messages and echoed entries. Defaults to
	// os.Stdout.
	Console io.Writer
	// Now is passed to the log sink. Defaults to time.Now.
	Now func() time.Time
}

// Process holds the process-scoped state shared by every schema and logger.
type Process struct {
	Converters *conf.Converters
	Store      *conf.Store
	Settings   logging.Settings
	Sink       *logging.Sink

	opts Options
}

// New performs the first phase: the Store logs to the console only.
func New(opts Options) *Process {
	if opts.ConfigDir == "" {
		opts.ConfigDir = filepath.Dir(logging.SettingsFile)
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}

	console := log.New(opts.Console, "["+StoreCategory+"] ", 0, log.LevelInfo)
	p := &Process{
		Converters: conf.NewConverters(),
		opts:       opts,
	}
	p.Store = conf.NewStore(p.Converters, console)
	p.Store.Load(p.Settings.Schema(), p.SettingsPath())
	return p
}

// SettingsPath returns the path of the logger settings file.
func (p *Process) SettingsPath() string {
	return p.ConfigPath(filepath.Base(logging.SettingsFile))
}

// ConfigPath resolves name inside the configuration directory.
func (p *Process) ConfigPath(name string) string {
	return filepath.Join(p.opts.ConfigDir, name)
}

// OpenLogs performs the second phase: it opens the shared log file and
// routes Store messages to it.
func (p *Process) OpenLogs() error {
	if p.Sink != nil {
		return nil
	}
	sink, err := logging.Open(p.Settings, logging.Options{Console: p.opts.Console, Now: p.opts.Now})
	if err != nil {
		return fmt.Errorf("failed to open logs: %w", err)
	}
	p.Sink = sink
	p.Store.SetLogger(sink.Logger(StoreCategory))
	return nil
}

// Start runs both phases.
func Start(opts Options) (*Process, error) {
	p := New(opts)
	if err := p.OpenLogs(); err != nil {
		return nil, err
	}
	return p, nil
}

// Logger returns a Logger for category. OpenLogs must have succeeded.
func (p *Process) Logger(category string) *logging.Logger {
	if p.Sink == nil {
		panic("bootstrap: Logger called before OpenLogs")
	}
	return p.Sink.Logger(category)
}

// Close closes the shared log file.
func (p *Process) Close() error {
	if p.Sink == nil {
		return nil
	}
	return p.Sink.Close()
}
