package blocks

// decoder walks a props bag, tracking which keys were consumed so rest() can
// return the leftovers untouched.
type decoder struct {
	src  map[string]any
	used map[string]struct{}
}

func newDecoder(src map[string]any) *decoder {
	return &decoder{src: src, used: make(map[string]struct{})}
}

func (d *decoder) take(key string) (any, bool) {
	if d.src == nil {
		return nil, false
	}
	value, ok := d.src[key]
	if ok {
		d.used[key] = struct{}{}
	}
	return value, ok
}

func (d *decoder) str(key, fallback string) string {
	value, ok := d.take(key)
	if !ok {
		return fallback
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fallback
}

func (d *decoder) integer(key string, fallback int) int {
	value, ok := d.take(key)
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	case float32:
		return int(typed)
	}
	return fallback
}

func (d *decoder) float(key string, fallback float64) float64 {
	value, ok := d.take(key)
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	}
	return fallback
}

func (d *decoder) boolean(key string, fallback bool) bool {
	value, ok := d.take(key)
	if !ok {
		return fallback
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}

func (d *decoder) object(key string) map[string]any {
	value, ok := d.take(key)
	if !ok {
		return nil
	}
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return nil
}

func (d *decoder) list(key string) []any {
	value, ok := d.take(key)
	if !ok {
		return nil
	}
	if l, ok := value.([]any); ok {
		return l
	}
	return nil
}

// rest returns a deep copy of every key the decoder never consumed.
func (d *decoder) rest() map[string]any {
	if len(d.src) == 0 {
		return nil
	}
	var out map[string]any
	for key, value := range d.src {
		if _, consumed := d.used[key]; consumed {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[key] = cloneValue(value)
	}
	return out
}
