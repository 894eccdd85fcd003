package handler

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/AnnaCarter465/taxpadi/tax"
)

// Amount accepts either a JSON number or the text typed into an amount
// field. Text goes through tax.ParseAmount and negative numbers become 0.
// Text too long to represent is rejected.
type Amount float64

var errAmountOverflow = errors.New("amount out of range")

func (a *Amount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		v := tax.ParseAmount(s)
		if math.IsInf(v, 0) {
			return errAmountOverflow
		}

		*a = Amount(v)

		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	if f < 0 {
		f = 0
	}

	*a = Amount(f)

	return nil
}

func (a *Amount) value() float64 {
	if a == nil {
		return 0
	}
	return float64(*a)
}
