// Package avatars uploads and removes user avatar images on the image host.
package avatars

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// HostedDomain marks URLs served by the image host. Only those are
// eligible for deletion.
const HostedDomain = "res.cloudinary.com"

// ErrNotConfigured is returned by a Cloudinary host built without credentials.
var ErrNotConfigured = errors.New("avatars: image host not configured")

// Host stores avatar images. Upload takes a source URL and returns the
// canonical hosted URL.
type Host interface {
	Upload(ctx context.Context, sourceURL string) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// Config holds image host credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Cloudinary is a Host backed by the Cloudinary upload API.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds a host from cfg. An empty cloud name yields a host
// whose calls fail with ErrNotConfigured.
func NewCloudinary(cfg Config) (*Cloudinary, error) {
	folder := cfg.Folder
	if folder == "" {
		folder = "avatars"
	}
	if cfg.CloudName == "" {
		return &Cloudinary{folder: folder}, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Folder reports the folder avatars are uploaded into.
func (c *Cloudinary) Folder() string { return c.folder }

// Upload fetches sourceURL into the avatar folder.
func (c *Cloudinary) Upload(ctx context.Context, sourceURL string) (string, error) {
	if c.cld == nil {
		return "", ErrNotConfigured
	}
	res, err := c.cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload avatar: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("upload avatar: empty secure url")
	}
	return res.SecureURL, nil
}

// Destroy removes the image with publicID.
func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if c.cld == nil {
		return ErrNotConfigured
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy avatar: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy avatar: %s", res.Error.Message)
	}
	return nil
}

// IsHosted reports whether rawURL points at the image host.
func IsHosted(rawURL string) bool {
	return strings.Contains(rawURL, HostedDomain)
}

// PublicID derives the host's public id for a hosted avatar URL: the folder
// plus the last path segment without its extension. It returns "" for URLs
// that are not hosted.
func PublicID(rawURL, folder string) string {
	if !IsHosted(rawURL) {
		return ""
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" {
		return ""
	}
	return folder + "/" + base
}
