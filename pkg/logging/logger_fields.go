package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Codec field helpers

func Component(name string) Field {
	return String("component", name)
}

// Format is the on-disk format, "csv" or "json"
func Format(f string) Field {
	return String("format", f)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Path(p string) Field {
	return String("path", p)
}

// Communities is the number of communities read or written
func Communities(n int) Field {
	return Int("communities", n)
}

func Algorithm(name string) Field {
	return String("algorithm", name)
}

// Variant is the clustering kind, e.g. "fuzzy_node"
func Variant(kind string) Field {
	return String("variant", kind)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
