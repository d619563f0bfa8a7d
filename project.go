package scratch

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Project is the deserialized form of an sb3 project.json, following the
// Scratch 3.0 file format. Grounded on
// original_source/src/savefile.rs's SaveFile.
type Project struct {
	Targets    []Target               `json:"targets"`
	Monitors   []json.RawMessage      `json:"monitors"`
	Extensions []string               `json:"extensions"`
	Meta       ProjectMeta            `json:"meta"`
}

// ProjectMeta carries the editor/VM version stamps. Unused by the runtime,
// kept for round-trip fidelity and host display.
type ProjectMeta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Target is one sprite or the stage.
type Target struct {
	IsStage   bool                        `json:"isStage"`
	Name      string                      `json:"name"`
	Variables map[string]TargetVariable   `json:"variables"`
	Blocks    map[string]SerializedBlock  `json:"blocks"`
	Costumes  []CostumeDescriptor         `json:"costumes"`
	LayerOrder int                        `json:"layerOrder"`
	X         float64                     `json:"x"`
	Y         float64                     `json:"y"`
	Size      float64                     `json:"size"`
	Visible   bool                        `json:"visible"`
}

// TargetVariable is a [name, value] pair; UnmarshalJSON decodes the sb3
// two-element array form.
type TargetVariable struct {
	Name  string
	Value Value
}

func (v *TargetVariable) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("variable entry: expected [name, value], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &v.Name); err != nil {
		return err
	}
	var anyVal interface{}
	if err := json.Unmarshal(raw[1], &anyVal); err != nil {
		return err
	}
	v.Value = anyToValue(anyVal)
	return nil
}

// CostumeDescriptor names one costume asset within the archive.
type CostumeDescriptor struct {
	Name       string `json:"name"`
	AssetID    string `json:"assetId"`
	Md5Ext     string `json:"md5ext"`
	RotationCenterX float64 `json:"rotationCenterX"`
	RotationCenterY float64 `json:"rotationCenterY"`
}

// SerializedBlock is a block exactly as stored in the project file.
type SerializedBlock struct {
	Opcode   string                        `json:"opcode"`
	Next     *string                       `json:"next"`
	Inputs   map[string]json.RawMessage    `json:"inputs"`
	Fields   map[string]json.RawMessage    `json:"fields"`
	TopLevel bool                          `json:"topLevel"`
}

// LoadProjectFromZip reads project.json out of an sb3 archive. Unknown
// fields are ignored; missing optional fields default per §3.
func LoadProjectFromZip(r io.ReaderAt, size int64) (*Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &InitializationError{Cause: fmt.Errorf("open archive: %w", err)}
	}
	for _, f := range zr.File {
		if f.Name != "project.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &InitializationError{Cause: fmt.Errorf("open project.json: %w", err)}
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, rc); err != nil {
			return nil, &InitializationError{Cause: fmt.Errorf("read project.json: %w", err)}
		}
		var p Project
		if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
			return nil, &InitializationError{Cause: fmt.Errorf("parse project.json: %w", err)}
		}
		return &p, nil
	}
	return nil, &InitializationError{Cause: fmt.Errorf("project.json not found in archive")}
}

func anyToValue(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case string:
		return StringValue(t)
	default:
		return Null
	}
}
