package sheldon

import (
	"os"
	"path/filepath"

	"github.com/sceneq/sheldon/log"
)

// Clean sweeps settings.Root's repositories/ and downloads/ trees,
// removing anything not referenced by locked. It refuses to run if
// locked.Errors is non-empty: a partial lock must never be trusted to
// decide what is safe to delete. Per-entry failures are logged as
// warnings rather than aborting the sweep, matching the original's
// "best effort" cleanup behavior.
func Clean(settings *Settings, locked *LockedConfig, logger *log.Logger) error {
	if len(locked.Errors) > 0 {
		return wrap(KindSourceInstallFailed, nil, "refusing to clean after a lock that reported errors")
	}

	referencedDirs := make(map[string]bool)
	referencedFiles := make(map[string]bool)
	for _, p := range locked.Plugins {
		referencedDirs[p.Directory] = true
		for _, f := range p.Filenames {
			referencedFiles[f] = true
		}
	}

	if err := cleanRepositories(filepath.Join(settings.Root, cloneDirectory), referencedDirs, logger); err != nil {
		return err
	}
	return cleanDownloads(filepath.Join(settings.Root, downloadDirectory), referencedFiles, logger)
}

// cleanRepositories removes any git clone directory under root that is
// not in referenced. A clone directory is identified by the presence of
// a `.git` entry; directories above that level (host, org) are descended
// into but never deleted outright, since a sibling clone may still live
// under them.
func cleanRepositories(root string, referenced map[string]bool, logger *log.Logger) error {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		logger.Warnf("failed to read directory `%s`: %v", root, err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if !entry.IsDir() {
			continue
		}
		if isGitRepo(path) {
			if !referenced[path] {
				if err := os.RemoveAll(path); err != nil {
					logger.Warnf("failed to remove unused repository `%s`: %v", path, err)
				}
			}
			continue
		}
		if err := cleanRepositories(path, referenced, logger); err != nil {
			return err
		}
		removeIfEmpty(path)
	}
	return nil
}

// cleanDownloads removes any downloaded file under root that is not in
// referenced, then prunes directories left empty by that removal.
func cleanDownloads(root string, referenced map[string]bool, logger *log.Logger) error {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		logger.Warnf("failed to read directory `%s`: %v", root, err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if err := cleanDownloads(path, referenced, logger); err != nil {
				return err
			}
			removeIfEmpty(path)
			continue
		}
		if !referenced[path] {
			if err := os.Remove(path); err != nil {
				logger.Warnf("failed to remove unused download `%s`: %v", path, err)
			}
		}
	}
	return nil
}

func isGitRepo(directory string) bool {
	_, err := os.Stat(filepath.Join(directory, ".git"))
	return err == nil
}

func removeIfEmpty(directory string) {
	entries, err := os.ReadDir(directory)
	if err == nil && len(entries) == 0 {
		os.Remove(directory)
	}
}
