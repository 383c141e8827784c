package slice

// Map applies f to each element of list and returns the results in order.
// A nil f yields an empty slice.
func Map[T, R any](list []T, f func(t T) R) []R {
	if f == nil {
		return make([]R, 0)
	}

	output := make([]R, 0, len(list))
	for idx := range list {
		output = append(output, f(list[idx]))
	}

	return output
}

// Filter returns the elements of arr that pass filterFn. A nil filterFn
// keeps everything.
func Filter[T any](arr []T, filterFn func(v T) bool) []T {
	output := make([]T, 0, len(arr))
	for _, v := range arr {
		if filterFn == nil || filterFn(v) {
			output = append(output, v)
		}
	}

	return output
}

// Uniq drops repeated elements, keeping the first occurrence of each.
func Uniq[T comparable](list []T) []T {
	seen := make(map[T]struct{}, len(list))
	output := make([]T, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		output = append(output, v)
	}

	return output
}
