package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
)

// FakeSender records every email instead of delivering it.
type FakeSender struct {
	mu   sync.Mutex
	sent []mailer.Email
	Err  error
}

// Send implements mailer.Sender.
func (s *FakeSender) Send(_ context.Context, e mailer.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sent = append(s.sent, e)
	return nil
}

// Sent returns a copy of the recorded emails.
func (s *FakeSender) Sent() []mailer.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Email(nil), s.sent...)
}

// FakeAvatarHost is an in-memory image host. Uploads are returned under
// a res.cloudinary.com URL so hosted-image handling is exercised.
type FakeAvatarHost struct {
	mu        sync.Mutex
	Uploads   []string
	Destroyed []string
	UploadErr error
}

// ErrFakeUpload is a convenient failure for FakeAvatarHost.UploadErr.
var ErrFakeUpload = errors.New("upload rejected")

// Upload implements avatars.Host.
func (h *FakeAvatarHost) Upload(_ context.Context, sourceURL string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.UploadErr != nil {
		return "", h.UploadErr
	}
	h.Uploads = append(h.Uploads, sourceURL)
	return "https://res.cloudinary.com/demo/image/upload/v1/avatars/uploaded.png", nil
}

// Destroy implements avatars.Host.
func (h *FakeAvatarHost) Destroy(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Destroyed = append(h.Destroyed, publicID)
	return nil
}

// DestroyedIDs returns the public ids passed to Destroy.
func (h *FakeAvatarHost) DestroyedIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.Destroyed...)
}
