package transaction

import (
	"strconv"

	"cofre/internal/domain/cache"
)

// Filter scopes the transaction list. Zero fields are unset.
type Filter struct {
	Type          Kind
	Year          int
	Month         int
	BankAccountID string
}

func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Params are the query parameters sent to GET /transactions, with unset
// fields omitted.
func (f Filter) Params() map[string]string {
	params := make(map[string]string, 4)
	if f.Year > 0 {
		params["year"] = strconv.Itoa(f.Year)
	}
	if f.Month > 0 {
		params["month"] = strconv.Itoa(f.Month)
	}
	if f.BankAccountID != "" {
		params["bankAccountId"] = f.BankAccountID
	}
	if f.Type != "" {
		params["type"] = string(f.Type)
	}
	return params
}

// Key is the cache key for a filter. A nil or empty filter maps to the
// parameterless key.
func Key(f *Filter) cache.Key {
	if f == nil {
		return cache.EntityKey(Entity)
	}
	return cache.NewKey(Entity, f.Params())
}
