package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/abelbrown/tvratings/internal/config"
	"github.com/abelbrown/tvratings/internal/otel"
	"github.com/abelbrown/tvratings/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := os.MkdirAll(cfg.Dir(), 0o755); err != nil {
			c.configErr = fmt.Errorf("create data directory: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the history database for the duration of fn.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// withLogger appends to the event log for the duration of fn and flushes
// it before returning.
func (c *commandContext) withLogger(fn func(*otel.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(cfg.EventLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	logger := otel.NewLogger(f)
	defer logger.Close()
	return fn(logger)
}

// colorEnabled reports whether w is a terminal that should get ANSI colour.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
