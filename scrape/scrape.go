// Package scrape extracts snapshot links from LMS export pages and turns them
// into local file paths: relative links resolve against the page's directory,
// http(s) links are downloaded.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/language"
)

// DefaultMaxDownloadBytes caps a single download.
const DefaultMaxDownloadBytes int64 = 4 * 1024 * 1024

// Result is the scraper's output: paths to hand to the resolver and the pages
// or links that could not be processed.
type Result struct {
	Succeeded []string
	Failed    []failure.Record
}

// Scraper reads export pages.
type Scraper struct {
	Client           *http.Client
	DownloadDir      string   // created on first download; a temp dir when empty
	Extensions       []string // link extensions treated as snapshots
	MaxDownloadBytes int64
	Logger           *slog.Logger

	taken map[string]bool
}

// Scrape processes every page in order. It never returns an error: every
// problem becomes a failure record.
func (s *Scraper) Scrape(ctx context.Context, htmlPaths []string) *Result {
	result := &Result{}
	exts := make(map[string]bool)
	for _, ext := range language.NormalizeExtensions(s.Extensions) {
		exts[ext] = true
	}
	if len(exts) == 0 {
		for _, ext := range language.DefaultSnapshotExtensions() {
			exts[ext] = true
		}
	}

	for _, pagePath := range htmlPaths {
		links, err := extractLinks(pagePath)
		if err != nil {
			kind := failure.InputUnreadable
			if errors.Is(err, fs.ErrNotExist) {
				kind = failure.InputNotFound
			}
			result.Failed = append(result.Failed, failure.Record{Path: pagePath, Kind: kind, Detail: err.Error()})
			continue
		}

		found := 0
		for _, link := range links {
			u, err := url.Parse(link)
			if err != nil {
				continue
			}
			linkPath := u.Path
			if !exts[language.Extension(linkPath)] {
				continue
			}
			found++

			switch u.Scheme {
			case "http", "https":
				local, err := s.download(ctx, u)
				if err != nil {
					result.Failed = append(result.Failed, failure.Record{Path: u.String(), Kind: failure.DownloadFailed, Detail: err.Error()})
					continue
				}
				result.Succeeded = append(result.Succeeded, local)
			case "", "file":
				local := filepath.FromSlash(linkPath)
				if !filepath.IsAbs(local) {
					local = filepath.Join(filepath.Dir(pagePath), local)
				}
				result.Succeeded = append(result.Succeeded, local)
			default:
				result.Failed = append(result.Failed, failure.Record{Path: u.String(), Kind: failure.DownloadFailed, Detail: "unsupported scheme " + u.Scheme})
			}
		}
		s.logger().Info("scraped export page", "page", pagePath, "links", found)
	}
	return result
}

// extractLinks parses a page and returns its unique anchor hrefs in document order.
func extractLinks(pagePath string) ([]string, error) {
	f, err := os.Open(pagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// sniff <meta charset> so Latin-1 exports decode correctly
	reader, err := charset.NewReader(f, "text/html")
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", pagePath, err)
	}
	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pagePath, err)
	}

	var links []string
	seen := make(map[string]bool)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href != "" && !seen[href] {
					seen[href] = true
					links = append(links, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func (s *Scraper) download(ctx context.Context, u *url.URL) (string, error) {
	if err := s.ensureDownloadDir(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching: unexpected status %s", resp.Status)
	}

	limit := s.MaxDownloadBytes
	if limit <= 0 {
		limit = DefaultMaxDownloadBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("body exceeds %d bytes", limit)
	}

	local := filepath.Join(s.DownloadDir, s.claimName(path.Base(u.Path)))
	if err := os.WriteFile(local, data, 0644); err != nil {
		return "", fmt.Errorf("saving: %w", err)
	}
	s.logger().Debug("downloaded snapshot", "url", u.String(), "path", local, "bytes", len(data))
	return local, nil
}

func (s *Scraper) ensureDownloadDir() error {
	if s.DownloadDir == "" {
		dir, err := os.MkdirTemp("", "snapmatch-")
		if err != nil {
			return fmt.Errorf("creating download dir: %w", err)
		}
		s.DownloadDir = dir
		return nil
	}
	if err := os.MkdirAll(s.DownloadDir, 0755); err != nil {
		return fmt.Errorf("creating download dir: %w", err)
	}
	return nil
}

// claimName returns a file name unused in this run's download dir, prefixing
// a counter when the link's base name was already taken.
func (s *Scraper) claimName(name string) string {
	if s.taken == nil {
		s.taken = make(map[string]bool)
	}
	candidate := name
	for i := 2; s.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%d-%s", i, name)
	}
	s.taken[candidate] = true
	return candidate
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
