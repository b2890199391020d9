package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsuki/garden/pkg/errors"
)

// Manifest formats accepted by [ParseManifest].
const (
	ManifestJSON = "json"
	ManifestYAML = "yaml"
)

// manifestFile is the document shape on disk. A bare list of records is
// also accepted.
type manifestFile struct {
	Images []ImageRecord `json:"images" yaml:"images"`
}

// ReadManifest loads records from a .json, .yaml or .yml file.
func ReadManifest(path string) ([]ImageRecord, error) {
	format, err := manifestFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseManifest(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func manifestFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ManifestJSON, nil
	case ".yaml", ".yml":
		return ManifestYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// ParseManifest decodes records in the given format and validates them.
// Partial dimension pairs are cleared; records without a url are rejected.
func ParseManifest(r io.Reader, format string) ([]ImageRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []ImageRecord
	switch format {
	case ManifestJSON:
		records, err = decodeJSON(data)
	case ManifestYAML:
		records, err = decodeYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s manifest", format)
	}

	for i, rec := range records {
		if err := errors.ValidateRecordURL(rec.URL); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
	}
	return Normalize(records), nil
}

func decodeJSON(data []byte) ([]ImageRecord, error) {
	if data[0] == '[' {
		var records []ImageRecord
		err := json.Unmarshal(data, &records)
		return records, err
	}
	var m manifestFile
	err := json.Unmarshal(data, &m)
	return m.Images, err
}

func decodeYAML(data []byte) ([]ImageRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var records []ImageRecord
		err := node.Decode(&records)
		return records, err
	}
	var m manifestFile
	err := node.Decode(&m)
	return m.Images, err
}

// WriteManifest encodes records as an indented JSON manifest.
func WriteManifest(w io.Writer, records []ImageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(manifestFile{Images: records})
}
