package repository

// postgres caps a statement at 65535 bind parameters
const insertBatchSize = 1000

// batches splits items into consecutive slices of at most size elements
func batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	out := [][]T{}
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
