package datastore

import (
	"os"
	"path/filepath"
	"strings"

	"ccboard/internal/logging"
	"ccboard/internal/pathsec"
)

// sessionsDir is the corpus subtree session files live under (spec §6).
const sessionsDir = "projects"

// enumerateSessionFiles walks <corpusRoot>/projects recursively and
// returns every path-sanitized .jsonl file found. A directory that
// disappears mid-walk, or a path the sanitizer rejects, is logged and
// skipped rather than aborting the whole scan.
func enumerateSessionFiles(corpusRoot string) []string {
	log := logging.Get(logging.CategoryDataStore)
	root := filepath.Join(corpusRoot, sessionsDir)

	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Debugw("skipping unreadable directory entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		clean, sanErr := pathsec.Sanitize(corpusRoot, path)
		if sanErr != nil {
			log.Warnw("rejecting unsafe session path", "path", path, "error", sanErr)
			return nil
		}
		out = append(out, clean)
		return nil
	})
	if err != nil {
		log.Debugw("session directory walk ended early", "root", root, "error", err)
	}
	return out
}
