package config

import (
	"errors"
	"fmt"

	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/google/uuid"
)

var ErrInvalidWindow = errors.New("invalid window")

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// NewStore writes the default config when none exists and normalizes the
// stored one, so every window has a unique UUID and a usable size.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	store := Store{
		driver: driver,
	}
	if err := store.UpdateConfig(func(cfg Config) (Config, error) { return cfg, nil }); err != nil {
		return Store{}, err
	}

	return store, nil
}

type Store struct {
	driver Driver
}

func (p *Store) GetConfig() (Config, error) {
	return p.driver.Read()
}

// UpdateConfig normalizes and validates the result of fn before writing it.
func (p *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := p.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	cfg = normalize(cfg)
	for _, w := range cfg.Windows {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	return p.driver.Write(cfg)
}

func normalize(cfg Config) Config {
	windows := make([]Window, len(cfg.Windows))
	seen := make(map[string]bool)
	for i, w := range cfg.Windows {
		if w.UUID == "" || seen[w.UUID] {
			w.UUID = uuid.NewString()
		}
		seen[w.UUID] = true

		if w.Size.Width <= 0 || w.Size.Height <= 0 {
			w.Size = defaultWindowSize
		}
		windows[i] = w
	}
	cfg.Windows = windows

	return cfg
}

// Validate rejects bounds the window could never satisfy.
func (w Window) Validate() error {
	for name, size := range map[string]*window.Size{"min_size": w.MinSize, "max_size": w.MaxSize} {
		if size != nil && (size.Width <= 0 || size.Height <= 0) {
			return fmt.Errorf("%w %q: %s %s is not positive", ErrInvalidWindow, w.UUID, name, size)
		}
	}
	if w.MinSize != nil && w.MaxSize != nil && (w.MinSize.Width > w.MaxSize.Width || w.MinSize.Height > w.MaxSize.Height) {
		return fmt.Errorf("%w %q: min_size %s exceeds max_size %s", ErrInvalidWindow, w.UUID, w.MinSize, w.MaxSize)
	}
	switch w.Decorations {
	case window.FollowServer, window.ClientSide, window.ServerSide, window.NoDecorations:
	default:
		return fmt.Errorf("%w %q: unknown decorations %s", ErrInvalidWindow, w.UUID, w.Decorations)
	}
	return nil
}
