package filterexpr

// Evaluate returns a boolean mask over internal indices [0, len(payloads)):
// true means "candidate". filter == nil means all-ones.
func Evaluate(payloads []map[string]any, filter *Filter, idToExt []PointID) []bool {
	mask := make([]bool, len(payloads))
	for i := range mask {
		mask[i] = true
	}
	if filter == nil {
		return mask
	}
	for i, payload := range payloads {
		mask[i] = matches(payload, idToExt[i], filter)
	}
	return mask
}

func matches(payload map[string]any, id PointID, filter *Filter) bool {
	for _, c := range filter.Must {
		if !evalCondition(payload, id, c) {
			return false
		}
	}
	if len(filter.Should) > 0 {
		any := false
		for _, c := range filter.Should {
			if evalCondition(payload, id, c) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	for _, c := range filter.MustNot {
		if evalCondition(payload, id, c) {
			return false
		}
	}
	return true
}

func evalCondition(payload map[string]any, id PointID, c Condition) bool {
	switch cond := c.(type) {
	case MatchValue:
		v, ok := payload[cond.Key]
		if !ok {
			return false
		}
		return valuesEqual(v, cond.Value)
	case MatchRange:
		v, ok := payload[cond.Key]
		if !ok {
			return false
		}
		n, ok := asFloat(v)
		if !ok {
			return false
		}
		if cond.Gte != nil && !(n >= *cond.Gte) {
			return false
		}
		if cond.Lte != nil && !(n <= *cond.Lte) {
			return false
		}
		if cond.Gt != nil && !(n > *cond.Gt) {
			return false
		}
		if cond.Lt != nil && !(n < *cond.Lt) {
			return false
		}
		return true
	case HasID:
		for _, want := range cond.IDs {
			if want.IsStr == id.IsStr && want.Str == id.Str && want.Num == id.Num {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
