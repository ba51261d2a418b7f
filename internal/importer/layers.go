package importer

import (
	"strings"

	"github.com/piwi3910/thermolayout/internal/model"
)

// Layer selection strategy names, reported in Selection.Strategy.
const (
	StrategyCutLayer      = "cut-layer"
	StrategyNonStructural = "non-structural"
	StrategyAll           = "all"
)

// minLayerEntities is the smallest subset a strategy must yield to be accepted.
const minLayerEntities = 4

// cutKeywords mark layers that explicitly hold cuttable part geometry.
var cutKeywords = []string{"die", "cut", "outline", "part"}

// structuralLayers are mold-plate and drawing scaffolding layer names.
var structuralLayers = map[string]bool{
	"plate":   true,
	"border":  true,
	"frame":   true,
	"sheet":   true,
	"web":     true,
	"default": true,
	"0":       true,
}

// layerStrategy is one step of the selection priority list.
type layerStrategy struct {
	name  string
	match func(layer string) bool
}

// layerStrategies is evaluated in order; the first strategy matching at least
// minLayerEntities entities wins.
var layerStrategies = []layerStrategy{
	{name: StrategyCutLayer, match: hasCutKeyword},
	{name: StrategyNonStructural, match: isNonStructural},
}

// Selection is the subset of entities chosen as the part's cut geometry.
type Selection struct {
	Strategy string
	Entities []model.Entity
}

// SelectLayers returns the entities representing the part outline: first those on
// die/cut/outline/part layers, then those not on structural layers, then everything.
func SelectLayers(entities []model.Entity) Selection {
	for _, s := range layerStrategies {
		subset := filterEntities(entities, s.match)
		if len(subset) >= minLayerEntities {
			return Selection{Strategy: s.name, Entities: subset}
		}
	}
	return Selection{Strategy: StrategyAll, Entities: entities}
}

func filterEntities(entities []model.Entity, match func(string) bool) []model.Entity {
	var out []model.Entity
	for _, e := range entities {
		if match(e.LayerName()) {
			out = append(out, e)
		}
	}
	return out
}

func hasCutKeyword(layer string) bool {
	l := strings.ToLower(layer)
	for _, kw := range cutKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

func isNonStructural(layer string) bool {
	return !structuralLayers[strings.ToLower(strings.TrimSpace(layer))]
}
