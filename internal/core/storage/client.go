package storage

import (
	"context"
	"time"
)

// UploadGrant is a short-lived permission to upload one attachment binary.
// Key is the durable handle persisted with the attachment; URL is transient
// and must never be stored.
type UploadGrant struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
}

// Client issues upload grants against the object store.
//
// The grant is returned before any bytes move: post creation and the actual
// binary upload complete independently, and the core never waits for the
// upload or verifies it happened.
type Client interface {
	GrantUpload(ctx context.Context, key, contentType string) (*UploadGrant, error)
}
