package analytics

import (
	"sort"
	"time"

	"ccboard/internal/sessionparse"
)

// ModelCost is one model's share of windowed cost.
type ModelCost struct {
	Model   string
	CostUSD float64
	Tokens  int64
}

// ProjectCost is one project's share of windowed cost.
type ProjectCost struct {
	ProjectPath string
	CostUSD     float64
	Tokens      int64
}

// CostBreakdown is spec §4.10's Cost derivation: per-model and
// per-project totals, cache-read discounted and cache-write surcharged.
type CostBreakdown struct {
	TotalUSD  float64
	ByModel   []ModelCost
	ByProject []ProjectCost
}

// ComputeCost prices every session in the window and totals by model and
// by project (spec §4.10 Cost).
func ComputeCost(sessions []*sessionparse.SessionMetadata, windowDays int, now time.Time) CostBreakdown {
	windowDays = windowOrDefault(windowDays)
	subset := windowed(sessions, now, windowDays)

	byModel := map[string]*ModelCost{}
	byProject := map[string]*ProjectCost{}
	var total float64

	for _, m := range subset {
		models := m.ModelList()
		cost := sessionCost(models, m.Tokens.Input, m.Tokens.Output, m.Tokens.CacheRead, m.Tokens.CacheWrite)
		total += cost

		model := "unknown"
		if len(models) > 0 {
			model = models[0]
		}
		mc, ok := byModel[model]
		if !ok {
			mc = &ModelCost{Model: model}
			byModel[model] = mc
		}
		mc.CostUSD += cost
		mc.Tokens += m.TotalTokens()

		pc, ok := byProject[m.ProjectPath]
		if !ok {
			pc = &ProjectCost{ProjectPath: m.ProjectPath}
			byProject[m.ProjectPath] = pc
		}
		pc.CostUSD += cost
		pc.Tokens += m.TotalTokens()
	}

	modelList := make([]ModelCost, 0, len(byModel))
	for _, k := range sortedMapKeysModelCost(byModel) {
		modelList = append(modelList, *byModel[k])
	}
	projectList := make([]ProjectCost, 0, len(byProject))
	for _, k := range sortedMapKeysProjectCost(byProject) {
		projectList = append(projectList, *byProject[k])
	}

	return CostBreakdown{TotalUSD: total, ByModel: modelList, ByProject: projectList}
}

func sortedMapKeysModelCost(m map[string]*ModelCost) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMapKeysProjectCost(m map[string]*ProjectCost) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
