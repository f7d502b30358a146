package regressor

import (
	"fmt"

	"commodity-forecast/internal/model"
)

// UnknownCategory is the code emitted for a level the model never saw.
const UnknownCategory = -1

// Encoder turns a FeatureVector into the positional numeric row the model
// was trained on. Categorical columns become the index of their level in
// the training-time level list.
type Encoder struct {
	levels map[string]map[string]int
}

// NewEncoder builds an encoder from the level lists of each categorical
// column. Columns without levels encode every value as UnknownCategory.
func NewEncoder(levels map[string][]string) (*Encoder, error) {
	e := &Encoder{levels: map[string]map[string]int{}}
	for col, ls := range levels {
		if !isCategorical(col) {
			return nil, fmt.Errorf("column %q is not categorical", col)
		}
		idx := make(map[string]int, len(ls))
		for i, l := range ls {
			if _, dup := idx[l]; dup {
				return nil, fmt.Errorf("column %q: duplicate level %q", col, l)
			}
			idx[l] = i
		}
		e.levels[col] = idx
	}
	return e, nil
}

// Code returns the category code of value in column.
func (e *Encoder) Code(column, value string) int {
	if c, ok := e.levels[column][value]; ok {
		return c
	}
	return UnknownCategory
}

// Encode returns the row in model.FeatureOrder.
func (e *Encoder) Encode(fv model.FeatureVector) []float64 {
	fields := fv.Fields()
	row := make([]float64, len(fields))
	for i, f := range fields {
		if f.Categorical {
			row[i] = float64(e.Code(f.Name, f.Text))
			continue
		}
		row[i] = f.Number
	}
	return row
}

func isCategorical(column string) bool {
	return column == model.FeatureMarket || column == model.FeatureVariety
}
