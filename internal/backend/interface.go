// Package backend wires the persistence and messaging stack selected by
// configuration into the ports the services depend on.
package backend

import (
	"context"

	"fintrack/internal/store"
)

type CleanupFunc func() error

// Result is everything the services need from the backend. Publisher is nil
// when ledger events are not forwarded anywhere.
type Result struct {
	Repository store.Repository
	Publisher  store.EventPublisher
	// Checks are readiness probes keyed by dependency name.
	Checks  map[string]func(context.Context) error
	Cleanup CleanupFunc
}

type Config struct {
	Type BackendType

	SQLiteDBPath string

	// An empty AMQPURL disables event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
