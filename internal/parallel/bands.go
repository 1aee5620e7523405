package parallel

// Band is a half-open row range [Start, End).
type Band struct {
	Start, End int
}

// Bands splits rows into at most parts contiguous, non-empty bands whose
// sizes differ by at most one. It returns nil when rows <= 0.
func Bands(rows, parts int) []Band {
	if rows <= 0 {
		return nil
	}
	parts = max(min(parts, rows), 1)

	bands := make([]Band, 0, parts)
	size, extra := rows/parts, rows%parts
	start := 0
	for i := range parts {
		end := start + size
		if i < extra {
			end++
		}
		bands = append(bands, Band{Start: start, End: end})
		start = end
	}
	return bands
}

// ForEachBand calls fn once per band of rows. With workers <= 1 the bands
// run sequentially on the calling goroutine; otherwise a pool of that many
// workers is started for the call and closed before returning.
func ForEachBand(rows, workers int, fn func(b Band)) {
	if workers <= 1 {
		if rows > 0 {
			fn(Band{Start: 0, End: rows})
		}
		return
	}

	// Several bands per worker so stealing has something to balance.
	bands := Bands(rows, workers*4)
	if len(bands) == 0 {
		return
	}

	pool := NewWorkerPool(workers)
	defer pool.Close()
	pool.Run(bands, fn)
}
