package engine

import (
	"strconv"
	"sync"

	"github.com/Konsultn-Engineering/dao/database"
)

// scanBuffer holds one row's scan destinations, reused across rows.
type scanBuffer struct {
	vals []any
	ptrs []any
}

// reset sizes the buffer for n columns and clears the previous row.
func (b *scanBuffer) reset(n int) {
	if cap(b.vals) < n {
		b.vals = make([]any, n)
		b.ptrs = make([]any, n)
	}
	b.vals = b.vals[:n]
	b.ptrs = b.ptrs[:n]
	for i := range b.vals {
		b.vals[i] = nil
		b.ptrs[i] = &b.vals[i]
	}
}

var scanPool = sync.Pool{
	New: func() any {
		return &scanBuffer{
			vals: make([]any, 0, 20),
			ptrs: make([]any, 0, 20),
		}
	},
}

// scanRows drains rows into Row values shaped by mode. []byte values are
// copied out as strings since the driver may reuse the buffer.
func scanRows(rows database.Rows, mode FetchMode) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	buf := scanPool.Get().(*scanBuffer)
	defer scanPool.Put(buf)

	size := len(columns)
	if mode == FetchBoth {
		size *= 2
	}

	results := make([]Row, 0)
	for rows.Next() {
		buf.reset(len(columns))
		if err := rows.Scan(buf.ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, size)
		for i, col := range columns {
			val := buf.vals[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			switch mode {
			case FetchNum:
				row[strconv.Itoa(i)] = val
			case FetchBoth:
				row[col] = val
				row[strconv.Itoa(i)] = val
			default:
				row[col] = val
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
