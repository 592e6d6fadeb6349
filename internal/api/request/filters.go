package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/folio/internal/model"
)

// ParseTransactionFilters builds a transaction filter from query parameters.
// All parameters are optional. kinds is comma separated; from and to are inclusive
// YYYY-MM-DD dates.
func ParseTransactionFilters(assetID, kinds, from, to string) (model.TransactionFilter, error) {
	filter := model.TransactionFilter{AssetID: assetID}

	if kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			kind := model.TransactionKind(strings.TrimSpace(strings.ToLower(k)))
			if !kind.Valid() {
				return model.TransactionFilter{}, fmt.Errorf("invalid kind: %s", k)
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}

	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return model.TransactionFilter{}, fmt.Errorf("invalid from date: %w", err)
		}
		filter.From = &t
	}

	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return model.TransactionFilter{}, fmt.Errorf("invalid to date: %w", err)
		}
		filter.To = &t
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return model.TransactionFilter{}, fmt.Errorf("to date %s is before from date %s", to, from)
	}

	return filter, nil
}
