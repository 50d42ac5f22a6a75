package container

import "fmt"

// Series extracts an x/y pair of numeric columns, in record order.
// This is the accessor plotting consumers use.
func (c *Container) Series(xField, yField string) (xs, ys []float64, err error) {
	xs = make([]float64, 0, len(c.records))
	ys = make([]float64, 0, len(c.records))

	for i, rec := range c.records {
		x, ok := numeric(rec[xField])
		if !ok {
			return nil, nil, fmt.Errorf("record %d: field %q is not numeric", i, xField)
		}
		y, ok := numeric(rec[yField])
		if !ok {
			return nil, nil, fmt.Errorf("record %d: field %q is not numeric", i, yField)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

// Bounds returns the minimum and maximum of a numeric field, for axis
// scaling. An empty container has zero bounds.
func (c *Container) Bounds(field string) (min, max float64, err error) {
	for i, rec := range c.records {
		v, ok := numeric(rec[field])
		if !ok {
			return 0, 0, fmt.Errorf("record %d: field %q is not numeric", i, field)
		}
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	return min, max, nil
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
