// Package fileops copies renamed PDFs into place and moves originals to the
// desktop trash.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Ensure Local implements the interface.
var _ driven.FileOps = (*Local)(nil)

// ErrTrashUnsupported is returned on platforms without a known trash location.
var ErrTrashUnsupported = errors.New("trash is not supported on this platform")

// Local implements driven.FileOps on the local filesystem.
type Local struct {
	goos     string
	home     string
	dataHome string
	now      func() time.Time
}

// NewLocal returns file operations for the running platform.
func NewLocal() *Local {
	home, _ := os.UserHomeDir()
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" && home != "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	return &Local{goos: runtime.GOOS, home: home, dataHome: dataHome, now: time.Now}
}

// Exists reports whether anything is present at path.
func (l *Local) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Copy writes a byte-identical copy of src to dst, keeping permission bits
// and modification time. An existing dst is never overwritten.
func (l *Local) Copy(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	if err = os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, time.Now(), info.ModTime())
}

// Trash moves path into the user's trash.
func (l *Local) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	switch l.goos {
	case "darwin":
		return l.trashMac(abs)
	case "windows", "plan9", "js", "wasip1":
		return fmt.Errorf("%w (%s)", ErrTrashUnsupported, l.goos)
	default:
		return l.trashXDG(abs)
	}
}

func (l *Local) trashMac(abs string) error {
	if l.home == "" {
		return errors.New("cannot locate home directory for ~/.Trash")
	}
	trashDir := filepath.Join(l.home, ".Trash")
	if err := os.MkdirAll(trashDir, 0700); err != nil {
		return err
	}

	base := filepath.Base(abs)
	for n := 1; ; n++ {
		target := filepath.Join(trashDir, candidateName(base, n))
		if _, err := os.Lstat(target); err == nil {
			continue
		}
		logger.Debug("Moving %s to %s", abs, target)
		return move(abs, target)
	}
}

// trashXDG follows the freedesktop.org trash specification: the .trashinfo
// record is created exclusively first, which reserves the name.
func (l *Local) trashXDG(abs string) error {
	if l.dataHome == "" {
		return errors.New("cannot locate XDG data directory for trash")
	}
	filesDir := filepath.Join(l.dataHome, "Trash", "files")
	infoDir := filepath.Join(l.dataHome, "Trash", "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	base := filepath.Base(abs)
	for n := 1; ; n++ {
		name := candidateName(base, n)
		target := filepath.Join(filesDir, name)
		if _, err := os.Lstat(target); err == nil {
			continue
		}

		infoPath := filepath.Join(infoDir, name+".trashinfo")
		info, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return err
		}

		_, werr := fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
			(&url.URL{Path: abs}).EscapedPath(), l.now().Format("2006-01-02T15:04:05"))
		cerr := info.Close()
		if err := errors.Join(werr, cerr); err != nil {
			os.Remove(infoPath)
			return err
		}

		logger.Debug("Moving %s to %s", abs, target)
		if err := move(abs, target); err != nil {
			os.Remove(infoPath)
			return err
		}
		return nil
	}
}

// candidateName returns base for n == 1, then "stem.n.ext".
func candidateName(base string, n int) string {
	if n == 1 {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "." + strconv.Itoa(n) + ext
}

// move renames src to dst, copying across filesystems.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	logger.Debug("Cross-device move, copying %s", src)
	if err := (&Local{}).Copy(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
