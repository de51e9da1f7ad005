package model

// Snapshot returns a deep copy of the symbol set.
//
// The engine clones its input on entry instead of relying on a runtime
// freeze-and-trap mechanism: every symbol kind is a value struct whose
// fields are scalars and strings, so copying the values severs all sharing
// with the caller. A caller that mutates its own slice, or reassigns fields
// of its own symbol values, cannot affect a layout computed from the
// snapshot.
func Snapshot(symbols []Symbol) []Symbol {
	if symbols == nil {
		return nil
	}
	out := make([]Symbol, len(symbols))
	for i, s := range symbols {
		out[i] = cloneSymbol(s)
	}
	return out
}

// cloneSymbol copies one symbol. The type switch is exhaustive over the
// closed kind set; the interface is sealed by the unexported kind method,
// so the default case is unreachable.
func cloneSymbol(s Symbol) Symbol {
	switch v := s.(type) {
	case Bus:
		return v
	case Source:
		return v
	case Load:
		return v
	case Switch:
		return v
	case LineBranch:
		return v
	case TransformerBranch:
		return v
	default:
		return s
	}
}
