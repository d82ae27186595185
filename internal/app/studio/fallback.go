package studio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FallbackRule maps draft trigger keywords to a canned diagram. The rule set
// is configuration data so new themes can be added without touching the
// repair pipeline's control flow.
type FallbackRule struct {
	Keywords []string `yaml:"keywords"`
	Diagram  string   `yaml:"diagram"`
}

const fallbackIndustrialRevolution = "graph TD\n" +
	"    A[工业革命] --> B[蒸汽机]\n" +
	"    A --> C[社会结构改变]\n" +
	"    C --> D[城市化加快]"

const fallbackUniversity = "mindmap\n" +
	"    root[大学教育]\n" +
	"        就业压力大\n" +
	"        管理复杂化\n" +
	"        课程信息化\n" +
	"        管理对象变化\n" +
	"        学生自主性"

const genericFlowchart = "graph TD\n" +
	"    A[主题] --> B[要点1]\n" +
	"    A --> C[要点2]\n" +
	"    B --> D[细节1]\n" +
	"    C --> E[细节2]"

const genericMindmap = "mindmap\n" +
	"    root[主要概念]\n" +
	"        概念1\n" +
	"        概念2\n" +
	"        概念3\n" +
	"        概念4\n" +
	"        概念5"

// DefaultFallbackRules returns the built-in theme rules.
func DefaultFallbackRules() []FallbackRule {
	return []FallbackRule{
		{
			Keywords: []string{"工业革命", "蒸汽机"},
			Diagram:  fallbackIndustrialRevolution,
		},
		{
			Keywords: []string{"大学"},
			Diagram:  fallbackUniversity,
		},
	}
}

type fallbackRulesFile struct {
	Rules []FallbackRule `yaml:"rules"`
}

// LoadFallbackRules reads theme rules from a YAML file. Rules without
// keywords or diagram content are skipped.
func LoadFallbackRules(path string) ([]FallbackRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fallback rules: %w", err)
	}

	var file fallbackRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing fallback rules: %w", err)
	}

	rules := make([]FallbackRule, 0, len(file.Rules))
	for _, r := range file.Rules {
		if len(r.Keywords) == 0 || r.Diagram == "" {
			continue
		}
		rules = append(rules, r)
	}
	return rules, nil
}
