package topo

import (
	"strings"

	"github.com/mlorenc/sldgrid/pkg/model"
)

// voltageFromKV classifies an explicit nominal voltage in kV.
func voltageFromKV(kv float64) VoltageLevel {
	switch {
	case kv >= 110:
		return VoltageWN
	case kv >= 6:
		return VoltageSN
	case kv < 1:
		return VoltageNN
	default:
		// 1..6 kV installations are treated as medium voltage.
		return VoltageSN
	}
}

// voltageFromName guesses a level from name substrings. The heuristic
// defaults to SN: this engine lays out medium-voltage networks, so an
// unnamed bus is most likely an SN bus.
func voltageFromName(name string) VoltageLevel {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "110") || strings.Contains(n, "wn"):
		return VoltageWN
	case strings.Contains(n, "0.4") || strings.Contains(n, "0,4") || strings.Contains(n, "nn"):
		return VoltageNN
	case strings.Contains(n, "15") || strings.Contains(n, "20") || strings.Contains(n, "sn"):
		return VoltageSN
	default:
		return VoltageSN
	}
}

// classifyVoltages determines the voltage level of every bus.
//
// Explicit kV attributes win over name heuristics. Transformer adjacency
// then overrides both: a bus on the primary side of a WN transformer is
// forced to WN and its secondary side to SN. A transformer whose primary
// bus already classified as SN is a local distribution transformer, so its
// secondary bus is forced to nN instead; forcing it to SN would erase
// every sub-station in the model.
func classifyVoltages(g *graph) map[string]VoltageLevel {
	levels := make(map[string]VoltageLevel)

	for _, id := range g.order {
		bus, ok := g.symbols[id].(model.Bus)
		if !ok {
			continue
		}
		if bus.VoltageKV > 0 {
			levels[id] = voltageFromKV(bus.VoltageKV)
		} else {
			levels[id] = voltageFromName(bus.DisplayName())
		}
	}

	// Transformer overrides, in sorted transformer order for determinism.
	for _, id := range g.order {
		tr, ok := g.symbols[id].(model.TransformerBranch)
		if !ok {
			continue
		}
		primary := g.busAtNode[tr.PrimaryNode]
		secondary := g.busAtNode[tr.SecondaryNode]
		if primary == "" || secondary == "" {
			continue
		}
		if levels[primary] == VoltageSN {
			levels[secondary] = VoltageNN
			continue
		}
		levels[primary] = VoltageWN
		levels[secondary] = VoltageSN
	}

	return levels
}
