package core

import "sort"

// CountRow is a name with its occurrence count.
type CountRow struct {
	Name  string
	Count int
}

// Summary holds frequency tables over the activity collection, each ordered
// by descending count with ties in first-encountered order.
type Summary struct {
	Total      int
	ByCategory []CountRow
	ByPriority []CountRow
}

// Summarize builds the category and priority frequency tables.
func Summarize(acts []Activity) Summary {
	return Summary{
		Total:      len(acts),
		ByCategory: countBy(acts, func(a Activity) string { return a.Category }),
		ByPriority: countBy(acts, func(a Activity) string { return string(a.Priority) }),
	}
}

func countBy(acts []Activity, key func(Activity) string) []CountRow {
	counts := map[string]int{}
	var order []string
	for _, a := range acts {
		k := key(a)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	rows := make([]CountRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, CountRow{Name: k, Count: counts[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// SortedByStart returns a copy of acts stably sorted ascending by start
// date; activities sharing a start date keep their relative order.
func SortedByStart(acts []Activity) []Activity {
	out := append([]Activity(nil), acts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
