package widget

import (
	"encoding/json"
	"fmt"
)

// Kind selects the content of a leaf pane.
type Kind int

const (
	KindNone Kind = iota
	KindInfo
	KindCPUGraph
	KindMemGraph
	KindNetGraph
	KindDiskGraph
	KindProcTable
)

var kindTags = map[Kind]string{
	KindNone:      "No",
	KindInfo:      "Info",
	KindCPUGraph:  "CpuGraph",
	KindMemGraph:  "MemGraph",
	KindNetGraph:  "NetGraph",
	KindDiskGraph: "DiskGraph",
	KindProcTable: "ProcTable",
}

var kindLabels = map[Kind]string{
	KindNone:      "ERR",
	KindInfo:      "INFO",
	KindCPUGraph:  "CPU",
	KindMemGraph:  "MEM",
	KindNetGraph:  "NET",
	KindDiskGraph: "DISK",
	KindProcTable: "PROC",
}

// Kinds lists every kind in configuration order.
func Kinds() []Kind {
	return []Kind{KindInfo, KindCPUGraph, KindMemGraph, KindNetGraph, KindDiskGraph, KindProcTable, KindNone}
}

// String returns the configuration tag.
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label is the pane title shown for the kind.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return "ERR"
}

// ParseKind maps a configuration tag to a kind.
func ParseKind(tag string) (Kind, error) {
	for kind, t := range kindTags {
		if t == tag {
			return kind, nil
		}
	}
	return KindNone, fmt.Errorf("unknown pane type %q (want one of Info, CpuGraph, MemGraph, NetGraph, DiskGraph, ProcTable, No)", tag)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	tag, ok := kindTags[k]
	if !ok {
		return nil, fmt.Errorf("invalid pane type %d", int(k))
	}
	return json.Marshal(tag)
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("pane type must be a string: %w", err)
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
