package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/wonny/stockpicker/internal/contracts"
)

// Catalog is an immutable, validated snapshot of the instrument dataset
// ⭐ SSOT: 프로세스 전체에서 공유하는 종목 데이터
type Catalog struct {
	source      string
	instruments []contracts.Instrument
	bySymbol    map[string]int
	fingerprint string
}

// Load reads and validates a dataset from src
func Load(ctx context.Context, src Source) (*Catalog, error) {
	instruments, err := src.Instruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src.Name(), err)
	}

	c, err := New(instruments)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog from %s: %w", src.Name(), err)
	}
	c.source = src.Name()

	return c, nil
}

// New validates instruments and freezes a private copy
func New(instruments []contracts.Instrument) (*Catalog, error) {
	if err := Validate(instruments); err != nil {
		return nil, err
	}

	frozen := slices.Clone(instruments)

	bySymbol := make(map[string]int, len(frozen))
	for i, inst := range frozen {
		bySymbol[NormalizeSymbol(inst.Symbol)] = i
	}

	fp, err := fingerprint(frozen)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		source:      "memory",
		instruments: frozen,
		bySymbol:    bySymbol,
		fingerprint: fp,
	}, nil
}

// Instruments returns a copy of the dataset in its original order
func (c *Catalog) Instruments() []contracts.Instrument {
	return slices.Clone(c.instruments)
}

// Len returns the number of instruments
func (c *Catalog) Len() int {
	return len(c.instruments)
}

// Source names where the dataset came from
func (c *Catalog) Source() string {
	return c.source
}

// BySymbol looks up one instrument (case-insensitive)
func (c *Catalog) BySymbol(symbol string) (contracts.Instrument, error) {
	idx, ok := c.bySymbol[NormalizeSymbol(symbol)]
	if !ok {
		return contracts.Instrument{}, fmt.Errorf("%w: %s", ErrInstrumentNotFound, symbol)
	}
	return c.instruments[idx], nil
}

// Fingerprint identifies the dataset content (cache keys)
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func fingerprint(instruments []contracts.Instrument) (string, error) {
	data, err := json.Marshal(instruments)
	if err != nil {
		return "", fmt.Errorf("failed to marshal catalog: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16], nil
}
