// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lawdb

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

// Catalog resolves configured database names to loaded, cached Database
// instances. Loaded databases are immutable; the cache holds them for the
// configured TTL (or forever when the TTL is zero). Malformed databases are
// excluded with a loud warning and stay excluded until their file changes.
type Catalog struct {
	dir     string
	names   []string
	cache   *gocache.Cache
	log     *zap.Logger
	watcher *fsnotify.Watcher
}

// NewCatalog builds a catalog over cfg.DatabasesDir. When cfg.Watch is set
// it also starts a filesystem watcher that drops a database from the cache
// whenever its file is written, so the next query re-loads it.
func NewCatalog(cfg types.LawConfig, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	c := &Catalog{
		dir:   cfg.DatabasesDir,
		names: append([]string(nil), cfg.Databases...),
		cache: gocache.New(ttl, ttl),
		log:   log,
	}
	sort.Strings(c.names)

	if cfg.Watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("starting database watcher: %w", err)
		}
		if err := w.Add(cfg.DatabasesDir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", cfg.DatabasesDir, err)
		}
		c.watcher = w
		go c.watch()
	}

	return c, nil
}

// Names returns the configured database names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Database returns the loaded database for name, loading and caching it on
// first use. Unknown names and malformed files are errors; a malformed file
// is logged loudly and never crashes the caller.
func (c *Catalog) Database(name string) (*Database, error) {
	if !c.configured(name) {
		return nil, fmt.Errorf("database %s is not configured", name)
	}

	if v, ok := c.cache.Get(name); ok {
		return v.(*Database), nil
	}

	db, err := Load(c.path(name), name)
	if err != nil {
		if m, ok := err.(*ErrMalformed); ok {
			c.log.Warn("excluding malformed law database",
				zap.String("database", m.Name),
				zap.String("reason", m.Reason))
		}
		return nil, err
	}

	c.cache.SetDefault(name, db)
	c.log.Info("loaded law database",
		zap.String("database", name),
		zap.Bool("enhanced", db.Metadata.Enhanced),
		zap.Int("chapters", len(db.Chapters)))
	return db, nil
}

// Validate loads every configured database and returns the load error per
// name, nil for well-formed ones.
func (c *Catalog) Validate() map[string]error {
	out := make(map[string]error, len(c.names))
	for _, name := range c.names {
		_, err := c.Database(name)
		out[name] = err
	}
	return out
}

// Close stops the filesystem watcher if one is running.
func (c *Catalog) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

func (c *Catalog) configured(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

func (c *Catalog) path(name string) string {
	return filepath.Join(c.dir, name+".json")
}

// watch invalidates cached databases when their backing file changes.
func (c *Catalog) watch() {
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			name := filepath.Base(ev.Name)
			if filepath.Ext(name) != ".json" {
				continue
			}
			name = name[:len(name)-len(".json")]
			if c.configured(name) {
				c.cache.Delete(name)
				c.log.Info("law database file changed, cache invalidated",
					zap.String("database", name))
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.log.Warn("database watcher error", zap.Error(err))
		}
	}
}
