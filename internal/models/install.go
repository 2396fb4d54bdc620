package models

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Installer downloads catalog entries into Dir.
type Installer struct {
	Dir    string
	Client *http.Client
}

func NewInstaller(dir string) *Installer {
	return &Installer{Dir: dir, Client: &http.Client{}}
}

// Install fetches e unless it is already present and returns its path.
func (in *Installer) Install(ctx context.Context, e Entry) (string, error) {
	dest := e.Path(in.Dir)
	if exists(dest) {
		log.Info().Str("model", e.ID).Str("path", dest).Msg("already installed")
		return dest, nil
	}
	if err := os.MkdirAll(in.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}

	switch e.Kind {
	case File:
		part := dest + ".part"
		if err := in.download(ctx, e, part); err != nil {
			os.Remove(part)
			return "", err
		}
		if err := os.Rename(part, dest); err != nil {
			return "", fmt.Errorf("move %s: %w", part, err)
		}
	default:
		archive := filepath.Join(in.Dir, e.Name+".zip")
		if err := in.download(ctx, e, archive); err != nil {
			os.Remove(archive)
			return "", err
		}
		log.Info().Str("model", e.ID).Msg("extracting")
		if err := Unzip(archive, in.Dir); err != nil {
			return "", fmt.Errorf("extract %s: %w", archive, err)
		}
		if err := os.Remove(archive); err != nil {
			log.Warn().Err(err).Str("archive", archive).Msg("could not remove archive")
		}
		if !exists(dest) {
			return "", fmt.Errorf("archive %s did not contain %s", e.URL, e.Name)
		}
	}
	log.Info().Str("model", e.ID).Str("path", dest).Msg("installed")
	return dest, nil
}

func (in *Installer) download(ctx context.Context, e Entry, to string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return err
	}
	client := in.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", e.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: http %d", e.URL, resp.StatusCode)
	}

	f, err := os.Create(to)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Info().Str("model", e.ID).Str("url", e.URL).Str("size", e.Size).Msg("downloading")
	pw := &progressWriter{id: e.ID, total: resp.ContentLength}
	if _, err := io.Copy(f, io.TeeReader(resp.Body, pw)); err != nil {
		return fmt.Errorf("download %s: %w", e.URL, err)
	}
	log.Info().Str("model", e.ID).Str("bytes", humanize.Bytes(uint64(pw.written))).Msg("download complete")
	return f.Close()
}

// progressWriter logs every 10% of a download (or every 10 MB when the size is unknown).
type progressWriter struct {
	id      string
	total   int64
	written int64
	next    int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	step := int64(10 << 20)
	if p.total > 0 {
		step = p.total / 10
	}
	if step > 0 && p.written >= p.next {
		ev := log.Info().Str("model", p.id).Str("done", humanize.Bytes(uint64(p.written)))
		if p.total > 0 {
			ev = ev.Float64("percent", float64(p.written)*100/float64(p.total))
		}
		ev.Msg("progress")
		p.next = p.written + step
	}
	return len(b), nil
}

var errZipSlip = errors.New("archive entry escapes destination")

// Unzip extracts archive into dir, refusing entries that resolve outside dir.
func Unzip(archive, dir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	for _, f := range r.File {
		target := filepath.Join(root, f.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", errZipSlip, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
