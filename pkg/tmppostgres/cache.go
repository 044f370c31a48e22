package tmppostgres

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// The initdb cache keeps one initialized cluster per distinct initdb
// invocation, so repeated fixtures skip the most expensive provisioning
// step. Entries live under the user cache dir, keyed by a digest of the
// initdb binary and its argv (minus the per-run data directory).

func cacheRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "tmp-postgres", "initdb"), nil
}

// cacheKey digests the initdb identity: resolved binary path, its mtime (a
// proxy for version upgrades), and every argument that is not the
// target data directory.
func cacheKey(program string, argv []string) (string, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", program, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\n%d\n", path, info.ModTime().UnixNano())
	for _, arg := range argv {
		if strings.HasPrefix(arg, "--pgdata=") || strings.HasPrefix(arg, "-D") {
			continue
		}
		fmt.Fprintf(h, "%s\n", arg)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// restoreCache copies a cached cluster into dataDir. Returns false when no
// entry exists for the key.
func restoreCache(key, dataDir string) (bool, error) {
	root, err := cacheRoot()
	if err != nil {
		return false, err
	}
	src := filepath.Join(root, key)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := copyTree(src, dataDir); err != nil {
		return false, fmt.Errorf("restore initdb cache: %w", err)
	}
	return true, nil
}

// storeCache copies a freshly initialized dataDir into the cache. The copy
// lands under a unique scratch name and is renamed into place, so concurrent
// writers for the same key cannot leave a torn entry; losing the rename race
// just means the other writer's identical copy wins.
func storeCache(key, dataDir string) error {
	root, err := cacheRoot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	scratch := filepath.Join(root, ".partial-"+uuid.NewString())
	if err := copyTree(dataDir, scratch); err != nil {
		os.RemoveAll(scratch)
		return fmt.Errorf("populate initdb cache: %w", err)
	}

	dst := filepath.Join(root, key)
	if err := os.Rename(scratch, dst); err != nil {
		os.RemoveAll(scratch)
		if _, statErr := os.Stat(dst); statErr == nil {
			return nil
		}
		return fmt.Errorf("publish initdb cache: %w", err)
	}
	return nil
}

// copyTree recursively copies src into dst, preserving file modes. dst may
// already exist as a directory.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return err
			}
			return nil
		}

		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
