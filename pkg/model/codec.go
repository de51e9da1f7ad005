package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tags used in serialized network files.
const (
	KindBus         = "bus"
	KindSource      = "source"
	KindLoad        = "load"
	KindSwitch      = "switch"
	KindLine        = "line"
	KindTransformer = "transformer"
)

// symbolRecord is the flat serialization envelope for all symbol kinds.
// Kind selects the variant; unused fields stay at their zero values.
type symbolRecord struct {
	Kind          string  `json:"kind" yaml:"kind"`
	ID            string  `json:"id" yaml:"id"`
	Element       string  `json:"element,omitempty" yaml:"element,omitempty"`
	Name          string  `json:"name,omitempty" yaml:"name,omitempty"`
	Node          string  `json:"node,omitempty" yaml:"node,omitempty"`
	FromNode      string  `json:"from,omitempty" yaml:"from,omitempty"`
	ToNode        string  `json:"to,omitempty" yaml:"to,omitempty"`
	PrimaryNode   string  `json:"primary,omitempty" yaml:"primary,omitempty"`
	SecondaryNode string  `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	VoltageKV     float64 `json:"voltage_kv,omitempty" yaml:"voltage_kv,omitempty"`
	DeclaredType  string  `json:"type,omitempty" yaml:"type,omitempty"`
	Closed        bool    `json:"closed,omitempty" yaml:"closed,omitempty"`
}

// networkFile is the on-disk network document.
type networkFile struct {
	Symbols []symbolRecord `json:"symbols" yaml:"symbols"`
}

// MarshalSymbols serializes a symbol set to indented JSON. Symbols are
// written in input order; readers must not depend on it.
func MarshalSymbols(symbols []Symbol) ([]byte, error) {
	doc := networkFile{Symbols: make([]symbolRecord, 0, len(symbols))}
	for _, s := range symbols {
		rec, err := toRecord(s)
		if err != nil {
			return nil, err
		}
		doc.Symbols = append(doc.Symbols, rec)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadNetworkFile loads a symbol set from a JSON or YAML network file,
// selected by file extension (.yaml/.yml for YAML, JSON otherwise).
func ReadNetworkFile(path string) ([]Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return UnmarshalSymbolsYAML(data)
	default:
		return UnmarshalSymbols(data)
	}
}

// UnmarshalSymbols decodes a JSON network document.
func UnmarshalSymbols(data []byte) ([]Symbol, error) {
	var doc networkFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromRecords(doc.Symbols)
}

// UnmarshalSymbolsYAML decodes a YAML network document.
func UnmarshalSymbolsYAML(data []byte) ([]Symbol, error) {
	var doc networkFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromRecords(doc.Symbols)
}

// UnmarshalSymbol decodes a single JSON symbol record, as used by delta
// files.
func UnmarshalSymbol(data []byte) (Symbol, error) {
	var rec symbolRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromRecord(rec)
}

// ReadNetwork decodes a JSON network document from r.
func ReadNetwork(r io.Reader) ([]Symbol, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalSymbols(data)
}

func fromRecords(records []symbolRecord) ([]Symbol, error) {
	symbols := make([]Symbol, 0, len(records))
	for i, rec := range records {
		s, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i, err)
		}
		symbols = append(symbols, s)
	}
	if err := Validate(symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

func fromRecord(rec symbolRecord) (Symbol, error) {
	common := Common{SymbolID: rec.ID, Element: rec.Element, Name: rec.Name}
	switch rec.Kind {
	case KindBus:
		return Bus{Common: common, Node: rec.Node, VoltageKV: rec.VoltageKV, DeclaredType: rec.DeclaredType}, nil
	case KindSource:
		return Source{Common: common, Node: rec.Node}, nil
	case KindLoad:
		return Load{Common: common, Node: rec.Node}, nil
	case KindSwitch:
		return Switch{Common: common, FromNode: rec.FromNode, ToNode: rec.ToNode, Closed: rec.Closed}, nil
	case KindLine:
		return LineBranch{Common: common, FromNode: rec.FromNode, ToNode: rec.ToNode}, nil
	case KindTransformer:
		return TransformerBranch{Common: common, PrimaryNode: rec.PrimaryNode, SecondaryNode: rec.SecondaryNode}, nil
	default:
		return nil, fmt.Errorf("unknown symbol kind %q", rec.Kind)
	}
}

func toRecord(s Symbol) (symbolRecord, error) {
	rec := symbolRecord{ID: s.ID(), Element: s.ElementID(), Name: s.DisplayName()}
	switch v := s.(type) {
	case Bus:
		rec.Kind = KindBus
		rec.Node = v.Node
		rec.VoltageKV = v.VoltageKV
		rec.DeclaredType = v.DeclaredType
	case Source:
		rec.Kind = KindSource
		rec.Node = v.Node
	case Load:
		rec.Kind = KindLoad
		rec.Node = v.Node
	case Switch:
		rec.Kind = KindSwitch
		rec.FromNode = v.FromNode
		rec.ToNode = v.ToNode
		rec.Closed = v.Closed
	case LineBranch:
		rec.Kind = KindLine
		rec.FromNode = v.FromNode
		rec.ToNode = v.ToNode
	case TransformerBranch:
		rec.Kind = KindTransformer
		rec.PrimaryNode = v.PrimaryNode
		rec.SecondaryNode = v.SecondaryNode
	default:
		return symbolRecord{}, fmt.Errorf("unknown symbol type %T", s)
	}
	return rec, nil
}
