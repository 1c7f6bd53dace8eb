// Package pathsec validates candidate file paths before they are opened.
// It is applied at every ingress to the corpus: enumeration, watcher
// event handling, and detail-view requests. Without it a symlink planted
// in the corpus could cause reads outside the intended bounds, since
// every path the core touches ultimately derives from a directory
// listing under the corpus root.
package pathsec

import (
	"os"
	"path/filepath"
	"strings"

	"ccboard/internal/corpuserr"
	"ccboard/internal/logging"
)

// Sanitize validates candidate against root and returns the canonical,
// symlink-free path. It fails closed: any traversal outside root, or any
// symlink anywhere along the path from root down to candidate, is a
// corpuserr.SecurityViolation.
func Sanitize(root, candidate string) (string, error) {
	log := logging.Get(logging.CategoryPathSec)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", corpuserr.New(corpuserr.SecurityViolation, candidate, err)
	}
	absRoot = filepath.Clean(absRoot)

	absCandidate := candidate
	if !filepath.IsAbs(absCandidate) {
		absCandidate = filepath.Join(absRoot, absCandidate)
	}
	absCandidate = filepath.Clean(absCandidate)

	rel, err := filepath.Rel(absRoot, absCandidate)
	if err != nil {
		return "", corpuserr.New(corpuserr.SecurityViolation, candidate, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		log.Warnw("path escapes corpus root", "root", absRoot, "candidate", absCandidate)
		return "", corpuserr.New(corpuserr.SecurityViolation, candidate, nil).
			WithSuggestion("path must resolve within the corpus root")
	}

	if err := rejectSymlinks(absRoot, absCandidate); err != nil {
		return "", err
	}

	return absCandidate, nil
}

// rejectSymlinks walks from root down to target component by component,
// failing if any intermediate path element (including target itself) is
// a symbolic link. It tolerates components that do not yet exist (the
// caller may be sanitizing a path that will be created).
func rejectSymlinks(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return corpuserr.New(corpuserr.SecurityViolation, target, err)
	}
	if rel == "." {
		return checkNotSymlink(root, target)
	}

	parts := strings.Split(rel, string(filepath.Separator))
	cur := root
	for _, part := range parts {
		cur = filepath.Join(cur, part)
		if err := checkNotSymlink(root, cur); err != nil {
			return err
		}
	}
	return nil
}

func checkNotSymlink(root, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return corpuserr.New(corpuserr.Io, path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		logging.Get(logging.CategoryPathSec).Warnw("rejected symlink in corpus", "root", root, "path", path)
		return corpuserr.New(corpuserr.SecurityViolation, path, nil).
			WithSuggestion("remove the symlink or move the target inside the corpus root")
	}
	return nil
}
