package cms

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Sort orders a listing by one top-level field of the serialized entity.
type Sort struct {
	By         string
	Descending bool
}

// ListOptions shape a listing: optional case-insensitive substring filter
// over all field values, multi-key sort, then offset/limit pagination.
// Limit 0 means unlimited.
type ListOptions struct {
	Filter string
	Sort   []Sort
	Limit  int
	Offset int
}

// PaginatedList is one page of a listing. Total counts the matches before
// pagination, so callers can page without a second query.
type PaginatedList[T any] struct {
	Total  int
	Limit  int
	Offset int
	List   []T
}

// paginate filters, sorts and slices items. Filtering and sorting look at
// the entity's serialized form, so they see exactly the fields stored on
// disk plus nothing derived.
func paginate[T any](items []T, opts ListOptions) PaginatedList[T] {
	matched := items
	if opts.Filter != "" {
		needle := strings.ToLower(opts.Filter)
		matched = nil
		for _, item := range items {
			if matchesFilter(item, needle) {
				matched = append(matched, item)
			}
		}
	}

	if len(opts.Sort) > 0 {
		sortItems(matched, opts.Sort)
	}

	total := len(matched)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return PaginatedList[T]{
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
		List:   matched[start:end],
	}
}

func matchesFilter(item any, needle string) bool {
	for _, v := range fieldValues(item) {
		if strings.Contains(strings.ToLower(stringify(v)), needle) {
			return true
		}
	}
	return false
}

func sortItems[T any](items []T, keys []Sort) {
	sort.SliceStable(items, func(i, j int) bool {
		vi := fieldValues(items[i])
		vj := fieldValues(items[j])
		for _, key := range keys {
			c := compareValues(vi[key.By], vj[key.By])
			if c == 0 {
				continue
			}
			if key.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// fieldValues flattens an entity to its top-level serialized fields.
func fieldValues(item any) map[string]any {
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

func compareValues(a, b any) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(stringify(a), stringify(b))
}
