package sheldon

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/sceneq/sheldon/internal/fsutil"
)

const (
	cloneDirectory    = "repositories"
	downloadDirectory = "downloads"
)

// LockedSource is the result of installing a Source: a concrete directory
// on disk and, for a Remote source only, the single downloaded filename.
type LockedSource struct {
	Directory string
	// Filename is set iff the Source was Remote.
	Filename string
}

// install materializes source under settings.Root and returns a
// LockedSource. It is idempotent per (root, source): running it twice
// converges to the same LockedSource without redownloading or re-cloning
// (besides the hard reset a Git reference always performs).
func install(settings *Settings, source Source) (LockedSource, error) {
	switch source.Kind {
	case SourceGit:
		return installGit(settings, source)
	case SourceRemote:
		return installRemote(settings, source)
	case SourceLocal:
		return installLocal(settings, source)
	default:
		return LockedSource{}, wrap(KindSourceInstallFailed, nil, "unknown source kind")
	}
}

// gitCloneDirectory computes the clone directory for a Git source URL:
// <root>/repositories/<host>/<path stripped of its leading '/'>. A
// `file://` URL (go-git's own local-filesystem transport, e.g. a bare
// repository on disk) has no host, so it is keyed under the literal
// segment "local" instead.
func gitCloneDirectory(settings *Settings, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", wrap(KindSourceInstallFailed, err, "failed to parse URL `%s`", rawURL)
	}
	if u.Scheme == "file" {
		return filepath.Join(settings.Root, cloneDirectory, "local", strings.TrimPrefix(u.Path, "/")), nil
	}
	if u.Host == "" {
		return "", wrap(KindSourceInstallFailed, nil, "URL `%s` has no host", rawURL)
	}
	return filepath.Join(settings.Root, cloneDirectory, u.Host, strings.TrimPrefix(u.Path, "/")), nil
}

func installGit(settings *Settings, source Source) (LockedSource, error) {
	directory, err := gitCloneDirectory(settings, source.URL)
	if err != nil {
		return LockedSource{}, err
	}

	repo, err := git.PlainClone(directory, false, &git.CloneOptions{URL: source.URL, RecurseSubmodules: git.DefaultSubmoduleRecursionDepth})
	if err != nil {
		if err != git.ErrRepositoryAlreadyExists {
			return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to git clone `%s`", source.URL)
		}
		repo, err = git.PlainOpen(directory)
		if err != nil {
			return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to open repository at `%s`", directory)
		}
	}

	if source.Reference != nil {
		hash, err := pinReference(repo, *source.Reference)
		if err != nil {
			return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to install source `%s`", source.URL)
		}

		wt, err := repo.Worktree()
		if err != nil {
			return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to open worktree at `%s`", directory)
		}
		if err := wt.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
			return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to reset repository to revision `%s`", hash)
		}
	}

	return LockedSource{Directory: directory}, nil
}

func installRemote(settings *Settings, source Source) (LockedSource, error) {
	u, err := url.Parse(source.URL)
	if err != nil || u.Host == "" {
		return LockedSource{}, wrap(KindSourceInstallFailed, err, "URL `%s` has no host", source.URL)
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	base := segments[len(segments)-1]
	rest := segments[:len(segments)-1]
	if base == "" {
		base = "index"
	}

	directory := filepath.Join(append([]string{settings.Root, downloadDirectory, u.Host}, rest...)...)
	filename := filepath.Join(directory, base)

	if exists, _, err := fsutil.Stat(filename); err == nil && exists {
		return LockedSource{Directory: directory, Filename: filename}, nil
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to create directory `%s`", directory)
	}

	resp, err := http.Get(source.URL)
	if err != nil {
		return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to download from `%s`", source.URL)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return LockedSource{}, wrap(KindSourceInstallFailed, nil, "failed to download from `%s`: status %s", source.URL, resp.Status)
	}

	out, err := os.Create(filename)
	if err != nil {
		return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to create `%s`", filename)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return LockedSource{}, wrap(KindSourceInstallFailed, err, "failed to copy contents to `%s`", filename)
	}

	return LockedSource{Directory: directory, Filename: filename}, nil
}

func installLocal(settings *Settings, source Source) (LockedSource, error) {
	directory := settings.ExpandTilde(source.Directory)

	exists, isDir, err := fsutil.Stat(directory)
	switch {
	case err != nil:
		return LockedSource{}, wrap(KindLocalMissing, err, "failed to find directory `%s`", directory)
	case !exists:
		return LockedSource{}, wrap(KindLocalMissing, nil, "failed to find directory `%s`", directory)
	case !isDir:
		return LockedSource{}, wrap(KindLocalNotADirectory, nil, "`%s` is not a directory", directory)
	default:
		return LockedSource{Directory: directory}, nil
	}
}
