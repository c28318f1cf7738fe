package render

// Chunk splits seq into consecutive batches of size elements; the last
// batch may be shorter. A non-positive size or an empty seq yields no
// batches. The batches share seq's backing array.
func Chunk[T any](seq []T, size int) [][]T {
	if size <= 0 || len(seq) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(seq)+size-1)/size)
	for start := 0; start < len(seq); start += size {
		end := min(start+size, len(seq))
		out = append(out, seq[start:end:end])
	}
	return out
}
