package process

// FindSync returns the index of the first sample at or after from that
// reaches 1.0, or -1.
func FindSync(syncIn []float64, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(syncIn); i++ {
		if syncIn[i] >= 1.0 {
			return i
		}
	}
	return -1
}

// SyncIndices appends the indices of wraps in a SyncOut buffer to dst.
func SyncIndices(dst []int, syncOut []float64) []int {
	for i, v := range syncOut {
		if v != 0 {
			dst = append(dst, i)
		}
	}
	return dst
}

// ApplyGain multiplies buffer by a per-sample gain. gain may be shorter
// than buffer, in which case its last value holds.
func ApplyGain(buffer, gain []float64) {
	if len(gain) == 0 {
		return
	}
	last := len(gain) - 1
	for i := range buffer {
		g := gain[last]
		if i < last {
			g = gain[i]
		}
		buffer[i] *= g
	}
}
