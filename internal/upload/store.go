package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store persists product pictures under a single directory that the HTTP
// layer serves statically. Filenames are generated here; callers store
// only the returned name.
type Store struct {
	Dir    string
	Client *http.Client
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &Store{
		Dir:    dir,
		Client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// SaveMultipart writes an uploaded file part under a timestamped name and
// returns that name.
func (s *Store) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(fh.Filename))
	if err := s.write(name, src); err != nil {
		return "", err
	}
	return name, nil
}

// FetchRemote downloads a picture from rawURL and persists it under a
// generated "<uuid><ext>" name. The extension comes from the URL path and
// falls back to .jpg.
func (s *Store) FetchRemote(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid picture url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch picture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch picture: unexpected status %s", resp.Status)
	}

	ext := path.Ext(u.Path)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	if err := s.write(name, resp.Body); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) write(name string, r io.Reader) error {
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
