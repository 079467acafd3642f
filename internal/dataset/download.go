// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

// DefaultDownloadTimeout bounds the archive fetch.
const DefaultDownloadTimeout = 60 * time.Second

// Downloader fetches the MovieLens archive and extracts the two tables.
type Downloader struct {
	// Client defaults to an http.Client with DefaultDownloadTimeout.
	Client *http.Client

	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

// Download fetches url into a temp file under dir, then extracts ratings.csv
// and movies.csv from it as flat files in dir. Other members are skipped.
// Failures are not retried.
func (d Downloader) Download(ctx context.Context, url, dir string) (err error) {
	defer func() { metrics.RecordDownload(err) }()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logging.Info().Str("source", url).Str("destination", dir).Msg("Downloading dataset")

	archive, err := d.fetch(ctx, url, dir)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	if _, err := extractTables(archive, dir); err != nil {
		return err
	}
	return nil
}

func (d Downloader) fetch(ctx context.Context, url, dir string) (string, error) {
	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultDownloadTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.CreateTemp(dir, "movielens-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	var body io.Reader = resp.Body
	var bar *progressbar.ProgressBar
	if d.Progress != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(d.Progress),
			progressbar.OptionSetDescription("Downloading MovieLens"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(d.Progress) }),
		)
		pbReader := progressbar.NewReader(resp.Body, bar)
		body = &pbReader
	}

	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return out.Name(), nil
}

// extractTables copies the ratings and movies members of the archive into dst
// as flat files. Every member name is checked against ZipSlip first, so a
// hostile archive is rejected even if the offending entry is not a table.
func extractTables(src, dst string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = r.Close()
		return nil, fmt.Errorf("%s: illegal file path: %w", src, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return nil, fmt.Errorf("%s: illegal file path", f.Name)
		}
	}

	wanted := map[string]bool{RatingsFile: true, MoviesFile: true}
	var written []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if !wanted[name] {
			continue
		}
		target := filepath.Join(dst, name)
		if err := copyMember(f, target); err != nil {
			return written, err
		}
		delete(wanted, name)
		written = append(written, target)
	}

	for name := range wanted {
		return written, fmt.Errorf("archive has no %s", name)
	}
	return written, nil
}

func copyMember(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	// Write to a sibling temp file so a torn extraction never leaves a
	// truncated table that Ensure would treat as present.
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}
