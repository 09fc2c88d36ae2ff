package webd

import (
	"io"

	"github.com/rotblauer/drivesafe/params"
)

func init() {
	accessLog = io.Discard
}

// newTestWebDaemon creates a new WebDaemon for testing purposes, reading from source.
// source may be empty for tests that never touch the analysis routes.
func newTestWebDaemon(source string, chunkSize int) (daemon *WebDaemon, teardown func()) {
	config := params.DefaultTestWebDaemonConfig()
	config.Source.Path = source
	if chunkSize > 0 {
		config.Source.ChunkSize = chunkSize
	}
	daemon, err := NewWebDaemon(config)
	if err != nil {
		panic(err)
	}
	teardown = func() {
		daemon.scansSub.Unsubscribe()
	}
	return daemon, teardown
}
