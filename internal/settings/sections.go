package settings

import (
	"encoding/json"

	"ccboard/internal/logging"
)

// BudgetConfig drives the analytics budget derivation (spec §4.10).
type BudgetConfig struct {
	MonthlyBudgetUSD  float64 `json:"monthlyBudgetUsd"`
	AlertThresholdPct float64 `json:"alertThresholdPct"`
}

// HookConfig is one entry of the merged settings' "hooks" array, before
// script-body loading (see hooksdef.Parse for the full HookDefinition).
type HookConfig struct {
	Event   string `json:"event"`
	Command string `json:"command"`
	Async   bool   `json:"async"`
	Timeout string `json:"timeout"`
	Cwd     string `json:"cwd"`
	Matcher string `json:"matcher"`
}

// MCPServerConfig is one entry of the merged settings' "mcpServers" map.
type MCPServerConfig struct {
	Command   string            `json:"command"`
	Args      []string          `json:"args"`
	Env       map[string]string `json:"env"`
	URL       string            `json:"url"`
	Transport string            `json:"transport"`
}

// Keybindings decodes the effective tree's "keybindings" section.
// Unknown keys/actions are not rejected here: per spec §6 they are
// "logged and skipped" by the consumer that actually binds them: this
// decoder just surfaces the raw map.
func Keybindings(effective Tree) map[string]string {
	return decodeSection[map[string]string](effective, "keybindings")
}

// Budget decodes the effective tree's "budget" section.
func Budget(effective Tree) *BudgetConfig {
	return decodeSectionPtr[BudgetConfig](effective, "budget")
}

// Hooks decodes the effective tree's "hooks" array.
func Hooks(effective Tree) []HookConfig {
	return decodeSection[[]HookConfig](effective, "hooks")
}

// MCPServers decodes the effective tree's "mcpServers" map.
func MCPServers(effective Tree) map[string]MCPServerConfig {
	return decodeSection[map[string]MCPServerConfig](effective, "mcpServers")
}

func decodeSection[T any](tree Tree, key string) T {
	var zero T
	raw, ok := tree[key]
	if !ok {
		return zero
	}
	data, err := json.Marshal(raw)
	if err != nil {
		logging.Get(logging.CategorySettings).Warnw("failed to re-marshal settings section", "section", key, "error", err)
		return zero
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		logging.Get(logging.CategorySettings).Warnw("failed to decode settings section", "section", key, "error", err)
		return zero
	}
	return out
}

func decodeSectionPtr[T any](tree Tree, key string) *T {
	v := decodeSection[T](tree, key)
	return &v
}
