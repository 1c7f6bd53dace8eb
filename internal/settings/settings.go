// Package settings composes the assistant's four configuration layers
// (global, global-local, project, project-local) into one effective
// configuration tree with per-leaf provenance, and parses the small
// first-class config sections (keybindings, budget, hooks, mcpServers)
// named in spec §6.
package settings

import (
	"encoding/json"
	"os"

	"ccboard/internal/logging"
)

// Layer identifies which configuration source won a merged leaf.
type Layer string

const (
	LayerDefault      Layer = "default"
	LayerGlobal       Layer = "global"
	LayerGlobalLocal  Layer = "global-local"
	LayerProject      Layer = "project"
	LayerProjectLocal Layer = "project-local"
)

// orderedLayers is the strict priority order low to high: each later
// layer wins on conflict, matching spec invariant 8.
var orderedLayers = []Layer{LayerDefault, LayerGlobal, LayerGlobalLocal, LayerProject, LayerProjectLocal}

// Tree is a JSON-like value tree: map[string]interface{}, []interface{},
// or a JSON scalar (string/float64/bool/nil).
type Tree = map[string]interface{}

// Merged is the result of composing the four layers: the effective tree
// plus a parallel provenance tree whose leaves name the winning Layer.
type Merged struct {
	Effective  Tree
	Provenance Tree
}

// LayerInputs holds the four parsed (possibly nil/empty) layer trees in
// priority order, plus an optional default tree beneath all of them.
type LayerInputs struct {
	Default      Tree
	Global       Tree
	GlobalLocal  Tree
	Project      Tree
	ProjectLocal Tree
}

// Merge composes in.* in strict priority order. It is a pure function of
// its inputs: object values merge key-by-key recursively; arrays and
// scalars are replaced wholesale by the higher-priority layer.
func Merge(in LayerInputs) *Merged {
	layers := map[Layer]Tree{
		LayerDefault:      in.Default,
		LayerGlobal:       in.Global,
		LayerGlobalLocal:  in.GlobalLocal,
		LayerProject:      in.Project,
		LayerProjectLocal: in.ProjectLocal,
	}

	effective := Tree{}
	provenance := Tree{}
	for _, layer := range orderedLayers {
		tree := layers[layer]
		if tree == nil {
			continue
		}
		mergeInto(effective, provenance, tree, layer)
	}
	return &Merged{Effective: effective, Provenance: provenance}
}

// mergeInto folds src into dst, tagging every leaf it touches (or
// recurses into) with layer in provenance.
func mergeInto(dst, provenance Tree, src Tree, layer Layer) {
	for key, srcVal := range src {
		srcObj, srcIsObj := asTree(srcVal)
		dstVal, exists := dst[key]
		dstObj, dstIsObj := asTree(dstVal)

		if srcIsObj && exists && dstIsObj {
			provChild, _ := provenance[key].(Tree)
			if provChild == nil {
				provChild = Tree{}
				provenance[key] = provChild
			}
			mergeInto(dstObj, provChild, srcObj, layer)
			continue
		}

		if srcIsObj {
			childDst := Tree{}
			childProv := Tree{}
			mergeInto(childDst, childProv, srcObj, layer)
			dst[key] = childDst
			provenance[key] = childProv
			continue
		}

		// Scalar or array: higher-priority layer replaces wholesale.
		dst[key] = srcVal
		provenance[key] = string(layer)
	}
}

func asTree(v interface{}) (Tree, bool) {
	t, ok := v.(Tree)
	return t, ok
}

// LoadLayer reads and parses a single settings file. A missing file is
// not an error: it is treated as an empty layer, per spec §4.2's "missing
// files are treated as empty, not as errors".
func LoadLayer(path string) (Tree, error) {
	log := logging.Get(logging.CategorySettings)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		log.Warnw("failed to read settings layer", "path", path, "error", err)
		return nil, err
	}

	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		// A corrupt settings layer must not abort the merge: treat it as
		// empty and let the rest of the layers still apply, consistent
		// with the rest of the core never failing the whole load over
		// one bad file.
		log.Warnw("failed to parse settings layer, treating as empty", "path", path, "error", err)
		return nil, nil
	}
	return tree, nil
}
