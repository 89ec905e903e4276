// Package backup archives and restores ContactBook data. An archive is a
// gzipped tarball holding a YAML manifest, the SQLite database and, when
// one was used, the config file.
package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/contactbook/internal/store"
	"github.com/HerbHall/contactbook/internal/version"
)

// ManifestName is the first entry of every archive.
const ManifestName = "manifest.yaml"

type Manifest struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	Database  string    `yaml:"database"`
	Config    string    `yaml:"config,omitempty"`
}

// Backup writes an archive of dbPath, and of configPath when that file
// exists, to outputPath. The WAL is folded into the main database file
// first so the copy is complete.
func Backup(ctx context.Context, dbPath, configPath, outputPath string) (*Manifest, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database file not found: %w", err)
	}
	if err := checkpoint(ctx, dbPath); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", dbPath, err)
	}

	m := &Manifest{
		Version:   version.Short(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Database:  filepath.Base(dbPath),
	}
	files := map[string]string{m.Database: dbPath}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			m.Config = filepath.Base(configPath)
			files[m.Config] = configPath
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outputPath, err)
	}
	aw := newArchiveWriter(out)

	manifest, err := yaml.Marshal(m)
	if err == nil {
		err = aw.add(ManifestName, 0o644, m.CreatedAt, int64(len(manifest)), bytes.NewReader(manifest))
	}
	for _, name := range []string{m.Database, m.Config} {
		if err != nil || name == "" {
			continue
		}
		err = aw.addFile(name, files[name])
	}
	if err = errors.Join(err, aw.close(), out.Close()); err != nil {
		return nil, fmt.Errorf("write %s: %w", outputPath, err)
	}
	return m, nil
}

func checkpoint(ctx context.Context, dbPath string) error {
	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	_, err = s.DB().ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return errors.Join(err, s.Close())
}

type archiveWriter struct {
	gz *gzip.Writer
	tw *tar.Writer
}

func newArchiveWriter(w io.Writer) *archiveWriter {
	gz := gzip.NewWriter(w)
	return &archiveWriter{gz: gz, tw: tar.NewWriter(gz)}
}

func (a *archiveWriter) add(name string, mode int64, modTime time.Time, size int64, r io.Reader) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     mode,
		Size:     size,
		ModTime:  modTime,
		Typeflag: tar.TypeReg,
	}
	if err := a.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if _, err := io.Copy(a.tw, r); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (a *archiveWriter) addFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return a.add(name, int64(info.Mode().Perm()), info.ModTime(), info.Size(), f)
}

func (a *archiveWriter) close() error {
	return errors.Join(a.tw.Close(), a.gz.Close())
}
