// Package hooksdef turns the merged settings' "hooks" section into fully
// resolved HookDefinitions, loading script bodies from disk when a hook's
// command references a file.
package hooksdef

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ccboard/internal/logging"
	"ccboard/internal/settings"
)

// Definition is one hook, parsed from the merged settings per spec §3.
type Definition struct {
	Name    string
	Event   string
	Command string
	// Body is the verbatim contents of the script file the command
	// references, when it does reference one; empty otherwise.
	Body    string
	Async   bool
	Timeout time.Duration
	Cwd     string
	Matcher string
}

const defaultTimeout = 30 * time.Second

// Parse decodes the effective settings tree's "hooks" array into
// Definitions, loading each hook's script body relative to corpusRoot
// when its command looks like a path to a file that exists.
func Parse(effective settings.Tree, corpusRoot string) []Definition {
	log := logging.Get(logging.CategorySettings)
	raw := settings.Hooks(effective)

	out := make([]Definition, 0, len(raw))
	for i, h := range raw {
		d := Definition{
			Name:    hookName(h, i),
			Event:   h.Event,
			Command: h.Command,
			Async:   h.Async,
			Cwd:     h.Cwd,
			Matcher: h.Matcher,
			Timeout: defaultTimeout,
		}
		if h.Timeout != "" {
			if dur, err := time.ParseDuration(h.Timeout); err == nil {
				d.Timeout = dur
			} else {
				log.Warnw("invalid hook timeout, using default", "hook", d.Name, "timeout", h.Timeout)
			}
		}

		if body, ok := loadScriptBody(corpusRoot, h.Command); ok {
			d.Body = body
		}

		out = append(out, d)
	}
	return out
}

func hookName(h settings.HookConfig, index int) string {
	if h.Event != "" {
		return h.Event
	}
	return "hook-" + strconv.Itoa(index)
}

// loadScriptBody reads the command as a file path, relative to
// corpusRoot when not absolute, returning its verbatim contents when it
// resolves to a real file. A command that is a shell one-liner (no such
// file) is not an error: the hook simply has no body.
func loadScriptBody(corpusRoot, command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}
	path := command
	if !filepath.IsAbs(path) {
		path = filepath.Join(corpusRoot, path)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
