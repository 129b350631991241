package webui

import (
	"github.com/cperez90008/kiwiai/core/agent"
	"github.com/cperez90008/kiwiai/core/ledger"
	"github.com/cperez90008/kiwiai/core/memory"
	"github.com/cperez90008/kiwiai/core/scheduler"
	"github.com/cperez90008/kiwiai/pkg/keystore"
)

type Config struct {
	Agent     *agent.Agent
	Keys      *keystore.Store
	Costs     *ledger.Ledger
	Facts     *memory.Store
	Tasks     scheduler.TaskStore
	Runs      *scheduler.RunLog
	Notifier  scheduler.Notifier
	Version   string
	StaticDir string
}

type Option func(*Config)

func WithAgent(a *agent.Agent) Option {
	return func(c *Config) {
		c.Agent = a
	}
}

func WithKeystore(k *keystore.Store) Option {
	return func(c *Config) {
		c.Keys = k
	}
}

func WithLedger(l *ledger.Ledger) Option {
	return func(c *Config) {
		c.Costs = l
	}
}

func WithMemory(m *memory.Store) Option {
	return func(c *Config) {
		c.Facts = m
	}
}

func WithTaskStore(s scheduler.TaskStore) Option {
	return func(c *Config) {
		c.Tasks = s
	}
}

func WithRunLog(r *scheduler.RunLog) Option {
	return func(c *Config) {
		c.Runs = r
	}
}

func WithNotifier(n scheduler.Notifier) Option {
	return func(c *Config) {
		c.Notifier = n
	}
}

func WithVersion(v string) Option {
	return func(c *Config) {
		c.Version = v
	}
}

func WithStaticDir(dir string) Option {
	return func(c *Config) {
		c.StaticDir = dir
	}
}

func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

func NewConfig(opts ...Option) *Config {
	c := &Config{
		Version: "1.0.0",
	}
	c.Apply(opts...)
	return c
}
