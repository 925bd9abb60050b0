// Package images stores recipe images and normalises uploads before they
// are stored.
package images

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store persists image assets addressed by key.
type Store interface {
	// Put stores the content under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// Delete removes the asset. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh storage key for a normalised JPEG.
func NewKey() string {
	d := time.Now()
	return fmt.Sprintf("recipes/%d/%d/%d/%v.jpg", d.Year(), d.Month(), d.Day(), uuid.New())
}
