package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Restore errors.
var (
	ErrNoManifest  = errors.New("archive has no manifest")
	ErrUnsafePath  = errors.New("archive entry escapes the target directory")
	ErrFileExists  = errors.New("file already exists")
	ErrEntryTooBig = errors.New("archive entry exceeds size limit")
)

// maxEntryBytes bounds a single extracted file.
const maxEntryBytes = 1 << 30

// Restore extracts a backup archive into dataDir. Existing files are only
// overwritten when force is set. The archive's manifest is returned.
func Restore(ctx context.Context, archivePath, dataDir string, force bool) (*Manifest, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var manifest *Manifest
	tr := tar.NewReader(gr)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		if hdr.Name == ManifestName {
			var m Manifest
			if err := yaml.NewDecoder(io.LimitReader(tr, 1<<20)).Decode(&m); err != nil {
				return nil, fmt.Errorf("decoding manifest: %w", err)
			}
			manifest = &m
			continue
		}

		target, err := safeJoin(dataDir, hdr.Name)
		if err != nil {
			return nil, err
		}
		if err := extractFile(tr, target, hdr, force); err != nil {
			return nil, fmt.Errorf("restoring %s: %w", hdr.Name, err)
		}
	}

	if manifest == nil {
		return nil, ErrNoManifest
	}
	return manifest, nil
}

// safeJoin rejects entry names that are absolute or climb out of dir.
func safeJoin(dir, name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(dir, name), nil
}

func extractFile(r io.Reader, target string, hdr *tar.Header, force bool) error {
	if hdr.Size > maxEntryBytes {
		return ErrEntryTooBig
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(target, flags, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, target)
		}
		return err
	}
	if _, err := io.Copy(out, io.LimitReader(r, hdr.Size)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
