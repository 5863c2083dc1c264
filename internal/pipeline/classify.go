package pipeline

import "lotconv/internal"

// Classify splits rows by mall-product-code membership in the mapping key
// set. The partition is stable, total and disjoint: every row lands in
// exactly one of the two slices, input order preserved.
func Classify(rows []internal.OrderRow, keys map[string]struct{}) (matched, unmatched []internal.OrderRow) {
	for _, row := range rows {
		if _, ok := keys[row.MallProductNo]; ok {
			matched = append(matched, row)
		} else {
			unmatched = append(unmatched, row)
		}
	}
	return matched, unmatched
}
