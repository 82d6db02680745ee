package fonts

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Provider downloads the CJK report font once per process and caches it on
// disk. Font trouble is never fatal: when FontPath reports ok=false the
// renderer degrades to its built-in face and report generation proceeds.
type Provider struct {
	url      string
	cacheDir string
	client   *http.Client

	group singleflight.Group

	mu     sync.RWMutex
	path   string
	failed bool
}

func NewProvider(url, cacheDir string) *Provider {
	return &Provider{
		url:      url,
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FontPath returns the cached font file path, fetching it on first use.
// Concurrent first calls share one download; the outcome, success or
// failure, is cached for the life of the process.
func (p *Provider) FontPath(ctx context.Context) (string, bool) {
	p.mu.RLock()
	path, failed := p.path, p.failed
	p.mu.RUnlock()
	if path != "" {
		return path, true
	}
	if failed {
		return "", false
	}

	v, err, _ := p.group.Do("font", func() (interface{}, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		log.Printf("[FontProvider] falling back to built-in face: %v", err)
		p.mu.Lock()
		p.failed = true
		p.mu.Unlock()
		return "", false
	}

	path = v.(string)
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
	return path, true
}

// Warmup fetches the font ahead of the first report so the first render does
// not pay for the download.
func (p *Provider) Warmup(ctx context.Context) {
	if _, ok := p.FontPath(ctx); ok {
		log.Printf("[FontProvider] font ready")
	}
}

func (p *Provider) fetch(ctx context.Context) (string, error) {
	dest := filepath.Join(p.cacheDir, filepath.Base(p.url))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("font download returned %s", resp.Status)
	}

	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(p.cacheDir, "font-*.ttf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	log.Printf("[FontProvider] cached %s", dest)
	return dest, nil
}
