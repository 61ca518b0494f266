package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/stockpicker/internal/contracts"
)

//go:embed data/instruments.yaml
var embeddedInstruments []byte

// Source supplies the whole instrument dataset at once
// ⭐ SSOT: 종목 데이터 공급 인터페이스
type Source interface {
	Instruments(ctx context.Context) ([]contracts.Instrument, error)
	Name() string
}

// document is the on-disk YAML layout
type document struct {
	Instruments []contracts.Instrument `yaml:"instruments"`
}

// YAMLSource reads the dataset from YAML bytes
type YAMLSource struct {
	name string
	data []byte
}

// NewEmbeddedSource returns the built-in sample dataset
func NewEmbeddedSource() *YAMLSource {
	return &YAMLSource{name: "embedded", data: embeddedInstruments}
}

// NewFileSource reads a dataset file from disk
func NewFileSource(path string) (*YAMLSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return &YAMLSource{name: path, data: data}, nil
}

// Name identifies the source in logs
func (s *YAMLSource) Name() string {
	return s.name
}

// Instruments decodes the dataset. Unknown keys are rejected.
func (s *YAMLSource) Instruments(ctx context.Context) ([]contracts.Instrument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeYAML(bytes.NewReader(s.data))
}

func decodeYAML(r io.Reader) ([]contracts.Instrument, error) {
	var doc document

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	return doc.Instruments, nil
}
