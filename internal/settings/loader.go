package settings

import "path/filepath"

// Paths names the four settings files for one workspace.
type Paths struct {
	Global       string // <corpus-root>/settings.json
	GlobalLocal  string // <corpus-root>/settings.local.json
	Project      string // <project-root>/.claude/settings.json
	ProjectLocal string // <project-root>/.claude/settings.local.json
}

// DefaultPaths derives the four layer paths from a corpus root and an
// optional project root (the project layers are skipped if projectRoot
// is empty, which is the common case for the corpus-wide view).
func DefaultPaths(corpusRoot, projectRoot string) Paths {
	p := Paths{
		Global:      filepath.Join(corpusRoot, "settings.json"),
		GlobalLocal: filepath.Join(corpusRoot, "settings.local.json"),
	}
	if projectRoot != "" {
		p.Project = filepath.Join(projectRoot, ".claude", "settings.json")
		p.ProjectLocal = filepath.Join(projectRoot, ".claude", "settings.local.json")
	}
	return p
}

// Load reads and merges the four layers beneath the caller-supplied defaults,
// returning the effective configuration with provenance.
func Load(defaults Tree, paths Paths) (*Merged, error) {
	in := LayerInputs{Default: defaults}

	var err error
	if in.Global, err = LoadLayer(paths.Global); err != nil {
		return nil, err
	}
	if in.GlobalLocal, err = LoadLayer(paths.GlobalLocal); err != nil {
		return nil, err
	}
	if paths.Project != "" {
		if in.Project, err = LoadLayer(paths.Project); err != nil {
			return nil, err
		}
	}
	if paths.ProjectLocal != "" {
		if in.ProjectLocal, err = LoadLayer(paths.ProjectLocal); err != nil {
			return nil, err
		}
	}

	return Merge(in), nil
}
