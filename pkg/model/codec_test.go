package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const jsonNetwork = `{
  "symbols": [
    {"kind": "bus", "id": "bus-sn", "name": "15 kV", "node": "n-1", "voltage_kv": 15},
    {"kind": "switch", "id": "sw-1", "from": "n-1", "to": "n-2", "closed": true},
    {"kind": "line", "id": "ln-1", "from": "n-2", "to": "n-3"},
    {"kind": "load", "id": "ld-1", "node": "n-3"},
    {"kind": "transformer", "id": "tr-1", "primary": "n-0", "secondary": "n-1"},
    {"kind": "source", "id": "src-1", "node": "n-0"}
  ]
}`

func TestUnmarshalSymbols(t *testing.T) {
	symbols, err := UnmarshalSymbols([]byte(jsonNetwork))
	if err != nil {
		t.Fatalf("UnmarshalSymbols() error: %v", err)
	}
	if len(symbols) != 6 {
		t.Fatalf("got %d symbols, want 6", len(symbols))
	}

	bus, ok := symbols[0].(Bus)
	if !ok {
		t.Fatalf("symbol 0 is %T, want Bus", symbols[0])
	}
	if bus.ID() != "bus-sn" || bus.Node != "n-1" || bus.VoltageKV != 15 {
		t.Errorf("bus = %+v, want id bus-sn at n-1 with 15 kV", bus)
	}

	sw := symbols[1].(Switch)
	if sw.FromNode != "n-1" || sw.ToNode != "n-2" || !sw.Closed {
		t.Errorf("switch = %+v, want n-1..n-2 closed", sw)
	}

	tr := symbols[4].(TransformerBranch)
	if tr.PrimaryNode != "n-0" || tr.SecondaryNode != "n-1" {
		t.Errorf("transformer = %+v, want primary n-0 secondary n-1", tr)
	}
}

func TestUnmarshalSymbolsRejectsUnknownKind(t *testing.T) {
	_, err := UnmarshalSymbols([]byte(`{"symbols": [{"kind": "capacitor", "id": "c-1"}]}`))
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "capacitor") {
		t.Errorf("error %q should name the unknown kind", err)
	}
}

func TestUnmarshalSymbolsValidates(t *testing.T) {
	_, err := UnmarshalSymbols([]byte(`{"symbols": [
		{"kind": "bus", "id": "dup", "node": "n-1"},
		{"kind": "bus", "id": "dup", "node": "n-2"}
	]}`))
	if err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestUnmarshalSymbolsYAML(t *testing.T) {
	doc := `symbols:
  - kind: bus
    id: bus-sn
    name: 15 kV
    node: n-1
    voltage_kv: 15
  - kind: load
    id: ld-1
    node: n-1
`
	symbols, err := UnmarshalSymbolsYAML([]byte(doc))
	if err != nil {
		t.Fatalf("UnmarshalSymbolsYAML() error: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("got %d symbols, want 2", len(symbols))
	}
	if symbols[0].(Bus).VoltageKV != 15 {
		t.Errorf("bus voltage = %v, want 15", symbols[0].(Bus).VoltageKV)
	}
}

func TestUnmarshalSymbolSingleRecord(t *testing.T) {
	s, err := UnmarshalSymbol([]byte(`{"kind": "switch", "id": "sw-new", "from": "n-1", "to": "n-2"}`))
	if err != nil {
		t.Fatalf("UnmarshalSymbol() error: %v", err)
	}
	if s.ID() != "sw-new" {
		t.Errorf("ID = %q, want sw-new", s.ID())
	}
	if _, ok := s.(Switch); !ok {
		t.Errorf("got %T, want Switch", s)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	symbols, err := UnmarshalSymbols([]byte(jsonNetwork))
	if err != nil {
		t.Fatalf("UnmarshalSymbols() error: %v", err)
	}
	data, err := MarshalSymbols(symbols)
	if err != nil {
		t.Fatalf("MarshalSymbols() error: %v", err)
	}
	again, err := UnmarshalSymbols(data)
	if err != nil {
		t.Fatalf("re-decode error: %v", err)
	}
	if len(again) != len(symbols) {
		t.Fatalf("round trip lost symbols: %d vs %d", len(again), len(symbols))
	}
	for i := range symbols {
		if symbols[i] != again[i] {
			t.Errorf("symbol %d changed: %+v vs %+v", i, symbols[i], again[i])
		}
	}
}

func TestReadNetworkFileSelectsByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "net.json")
	if err := os.WriteFile(jsonPath, []byte(jsonNetwork), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "net.yaml")
	if err := os.WriteFile(yamlPath, []byte("symbols:\n  - kind: bus\n    id: b\n    node: n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := ReadNetworkFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadNetworkFile(json) error: %v", err)
	}
	if len(fromJSON) != 6 {
		t.Errorf("json symbols = %d, want 6", len(fromJSON))
	}

	fromYAML, err := ReadNetworkFile(yamlPath)
	if err != nil {
		t.Fatalf("ReadNetworkFile(yaml) error: %v", err)
	}
	if len(fromYAML) != 1 {
		t.Errorf("yaml symbols = %d, want 1", len(fromYAML))
	}
}
