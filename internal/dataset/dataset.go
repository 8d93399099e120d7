// Package dataset holds the reference data served by the API: creators,
// products and their sales history. A Dataset is immutable once validated.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid dataset")

// Dataset is a complete snapshot of reference data.
type Dataset struct {
	Creators []models.Creator `json:"creators"`
	Products []models.Product `json:"products"`
	Sales    []models.Sale    `json:"sales"`
}

// Decode reads a JSON dataset and validates it.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Encode writes the dataset as indented JSON.
func (d *Dataset) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Validate checks identifiers and references. Sales may point at products
// missing from the catalog; preprocessing reports their revenue as
// unattributed.
func (d *Dataset) Validate() error {
	creators := make(map[string]struct{}, len(d.Creators))
	for _, c := range d.Creators {
		if c.ID == "" {
			return fmt.Errorf("%w: creator with empty id", ErrInvalid)
		}
		if _, dup := creators[c.ID]; dup {
			return fmt.Errorf("%w: duplicate creator %s", ErrInvalid, c.ID)
		}
		if !c.Platform.Valid() {
			return fmt.Errorf("%w: creator %s has unknown platform %q", ErrInvalid, c.ID, c.Platform)
		}
		creators[c.ID] = struct{}{}
	}

	products := make(map[string]struct{}, len(d.Products))
	for _, p := range d.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: product with empty id", ErrInvalid)
		}
		if _, dup := products[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %s", ErrInvalid, p.ID)
		}
		if !p.Category.Valid() {
			return fmt.Errorf("%w: product %s has unknown category %q", ErrInvalid, p.ID, p.Category)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: product %s has negative price", ErrInvalid, p.ID)
		}
		products[p.ID] = struct{}{}
	}

	sales := make(map[string]struct{}, len(d.Sales))
	for _, s := range d.Sales {
		if _, dup := sales[s.ID]; dup {
			return fmt.Errorf("%w: duplicate sale %s", ErrInvalid, s.ID)
		}
		if _, ok := creators[s.CreatorID]; !ok {
			return fmt.Errorf("%w: sale %s references unknown creator %s", ErrInvalid, s.ID, s.CreatorID)
		}
		if s.Quantity < 0 || s.Revenue < 0 {
			return fmt.Errorf("%w: sale %s has negative quantity or revenue", ErrInvalid, s.ID)
		}
		sales[s.ID] = struct{}{}
	}
	return nil
}
