// Package fetch discovers zip archives linked from HTML index pages and
// downloads them into a local directory, so a subsequent scan can pick them
// up next to the weights they belong to.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/craftgear/extract-model-info-json/internal/scan"
	"github.com/craftgear/extract-model-info-json/internal/util"
)

// DiscoverArchiveURLs fetches each feed index page and collects every linked
// zip URL, resolved against the feed's base URL. Per-feed faults are
// collected and joined; other feeds continue. The result is deduplicated and
// sorted.
func DiscoverArchiveURLs(ctx context.Context, client *http.Client, feedURLs []string, logger *slog.Logger) ([]string, error) {
	var discoveryErr error
	seen := make(map[string]struct{})

	for _, feedURL := range feedURLs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(discoveryErr, err)
		}

		l := logger.With(slog.String("feed_url", feedURL))

		base, err := url.Parse(feedURL)
		if err != nil {
			l.Warn("Skip: parse feed URL failed.", "error", err)
			discoveryErr = errors.Join(discoveryErr, fmt.Errorf("parse feed %s: %w", feedURL, err))
			continue
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			discoveryErr = errors.Join(discoveryErr, fmt.Errorf("create request %s: %w", feedURL, err))
			continue
		}
		body, err := util.FetchBody(client, req)
		if err != nil {
			l.Warn("Skip: fetch feed failed.", "error", err)
			discoveryErr = errors.Join(discoveryErr, err)
			continue
		}
		root, err := html.Parse(bytes.NewReader(body))
		if err != nil {
			l.Warn("Skip: parse HTML failed.", "error", err)
			discoveryErr = errors.Join(discoveryErr, fmt.Errorf("parse feed HTML %s: %w", feedURL, err))
			continue
		}

		links := archiveLinks(root)
		l.Debug("Feed checked.", slog.Int("archive_links", len(links)))
		for _, link := range links {
			ref, err := url.Parse(link)
			if err != nil {
				continue
			}
			seen[base.ResolveReference(ref).String()] = struct{}{}
		}
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	logger.Info("Feed discovery complete.",
		slog.Int("feeds", len(feedURLs)), slog.Int("unique_archives", len(urls)))
	return urls, discoveryErr
}

// archiveLinks returns href values ending with the archive extension.
func archiveLinks(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(nd *html.Node) {
		if nd.Type == html.ElementNode && nd.Data == "a" {
			for _, a := range nd.Attr {
				if a.Key == "href" && strings.HasSuffix(strings.ToLower(a.Val), scan.ArchiveExt) {
					out = append(out, a.Val)
				}
			}
		}
		for c := nd.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// DownloadAll fetches each archive URL sequentially into destDir, keeping the
// URL's base file name. Archives already present on disk are skipped.
// Per-archive faults are joined into the returned error; the rest continue.
// Returns the number of archives actually downloaded.
func DownloadAll(ctx context.Context, client *http.Client, urls []string, destDir string, logger *slog.Logger) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create destination %s: %w", destDir, err)
	}

	var downloadErr error
	downloaded := 0

	for _, archiveURL := range urls {
		if err := ctx.Err(); err != nil {
			return downloaded, errors.Join(downloadErr, err)
		}

		l := logger.With(slog.String("archive_url", archiveURL))

		name := filepath.Base(mustPath(archiveURL))
		destPath := filepath.Join(destDir, name)
		if _, err := os.Stat(destPath); err == nil {
			l.Debug("Skipping archive, already downloaded.", slog.String("path", destPath))
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
		if err != nil {
			downloadErr = errors.Join(downloadErr, fmt.Errorf("create request %s: %w", archiveURL, err))
			continue
		}
		body, err := util.FetchBody(client, req)
		if err != nil {
			l.Warn("Skip: download failed.", "error", err)
			downloadErr = errors.Join(downloadErr, err)
			continue
		}
		if err := os.WriteFile(destPath, body, 0o644); err != nil {
			l.Warn("Skip: write failed.", "error", err)
			downloadErr = errors.Join(downloadErr, fmt.Errorf("write %s: %w", destPath, err))
			continue
		}

		l.Info("Archive downloaded.", slog.String("path", destPath), slog.Int("bytes", len(body)))
		downloaded++
	}

	return downloaded, downloadErr
}

// mustPath extracts the URL path for base-name derivation, falling back to
// the raw string for unparseable URLs.
func mustPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
