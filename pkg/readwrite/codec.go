// Package readwrite persists community partitions as CSV or JSON text and
// restores them.
//
// CSV holds one community per line and no metadata. JSON holds the whole
// partition:
//
//	{"communities": [[1, 2], [3]], "algorithm": "louvain", "params": {},
//	 "overlap": false, "coverage": 0.9, "allocation_matrix": {...}}
//
// The JSON reader picks the clustering variant from the document itself:
// an allocation_matrix key makes it fuzzy, and communities whose members
// are arrays make it an edge clustering.
package readwrite

import (
	"os"

	"github.com/dd0wney/cluso-partitions/pkg/community"
	"github.com/dd0wney/cluso-partitions/pkg/logging"
	"github.com/dd0wney/cluso-partitions/pkg/metrics"
)

// Supported formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

const (
	opRead  = "read"
	opWrite = "write"
)

// DefaultDelimiter separates node identifiers on a CSV line
const DefaultDelimiter = ","

// DefaultFileMode is used when a file variant creates its destination
const DefaultFileMode os.FileMode = 0o644

// Codec reads and writes partitions, logging and measuring each call.
// A Codec holds no per-call state and is safe for concurrent use.
type Codec struct {
	logger   logging.Logger
	metrics  *metrics.Registry
	fileMode os.FileMode
}

// Option configures a Codec
type Option func(*Codec)

// WithLogger sets the logger. Operations log at debug level, failures at warn.
func WithLogger(logger logging.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics registry
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Codec) {
		c.metrics = r
	}
}

// WithFileMode sets the permissions of files created by the file variants
func WithFileMode(mode os.FileMode) Option {
	return func(c *Codec) {
		c.fileMode = mode
	}
}

// New creates a Codec. Without options it logs through logging.DefaultLogger
// and records into metrics.DefaultRegistry.
func New(opts ...Option) *Codec {
	c := &Codec{
		fileMode: DefaultFileMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) log() logging.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.With(logging.Component("readwrite"))
}

func (c *Codec) registry() *metrics.Registry {
	if c.metrics != nil {
		return c.metrics
	}
	return metrics.DefaultRegistry()
}

// track starts timing an operation. The returned func logs and records the
// outcome; p is only inspected when err is nil.
func (c *Codec) track(format, op, path string) func(p community.Partition, err error) {
	fields := []logging.Field{logging.Format(format), logging.Operation(op)}
	if path != "" {
		fields = append(fields, logging.Path(path))
	}
	timer := logging.StartTimer(c.log(), "partition "+op, fields...)

	return func(p community.Partition, err error) {
		if err != nil {
			c.registry().RecordOperation(format, op, "", 0, timer.Elapsed(), err)
			timer.EndError(err)
			return
		}

		variant := p.Kind().String()
		c.registry().RecordOperation(format, op, variant, p.Len(), timer.Elapsed(), nil)
		timer.End(
			logging.Variant(variant),
			logging.Communities(p.Len()),
			logging.Algorithm(p.Meta().MethodName),
		)
	}
}

// std backs the package-level functions
var std = New()
