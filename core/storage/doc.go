// Package storage wraps the S3-compatible object storage client.
//
// The tracker uses object storage for the raw announcement archive: every
// recognized announcement is persisted as a JSON object, and the archive can
// be replayed as a rescan source without touching the Discord API.
//
// # Client Interface
//
// The Client interface narrows the minio client to the operations the
// application needs, which keeps handlers testable through the mock in the
// mocks subpackage.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err != nil {
//	    log.Fatal("Failed to create storage client", zap.Error(err))
//	}
package storage
