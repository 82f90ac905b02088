package readwrite

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/dd0wney/cluso-partitions/pkg/community"
)

// NodeType converts a CSV token into a node identifier
type NodeType func(token string) (community.Node, error)

// AsString keeps tokens as strings. It is the ReadCSV default.
func AsString(token string) (community.Node, error) {
	return token, nil
}

// AsInt parses tokens as base-10 ints
func AsInt(token string) (community.Node, error) {
	return strconv.Atoi(token)
}

// AsInt64 parses tokens as base-10 int64s
func AsInt64(token string) (community.Node, error) {
	return strconv.ParseInt(token, 10, 64)
}

// AsUint64 parses tokens as graph node IDs
func AsUint64(token string) (community.Node, error) {
	return strconv.ParseUint(token, 10, 64)
}

// AsFloat parses tokens as float64s
func AsFloat(token string) (community.Node, error) {
	return strconv.ParseFloat(token, 64)
}

type csvOptions struct {
	delimiter string
	nodeType  NodeType
}

// CSVOption configures ReadCSV
type CSVOption func(*csvOptions)

// WithDelimiter sets the token separator. Empty means DefaultDelimiter.
func WithDelimiter(delimiter string) CSVOption {
	return func(o *csvOptions) {
		o.delimiter = delimiter
	}
}

// WithNodeType sets the token conversion
func WithNodeType(nodeType NodeType) CSVOption {
	return func(o *csvOptions) {
		o.nodeType = nodeType
	}
}

func newCSVOptions(opts []CSVOption) csvOptions {
	o := csvOptions{
		delimiter: DefaultDelimiter,
		nodeType:  AsString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.delimiter == "" {
		o.delimiter = DefaultDelimiter
	}
	if o.nodeType == nil {
		o.nodeType = AsString
	}
	return o
}

// WriteCSV writes one delimiter-joined line per community to w.
// Identifiers are not escaped: one whose text contains the delimiter will
// split into several tokens when read back. A community that would render as
// a blank line is a schema error.
func (c *Codec) WriteCSV(w io.Writer, p community.Partition, delimiter string) (err error) {
	done := c.track(FormatCSV, opWrite, "")
	defer func() { done(p, err) }()

	data, err := encodeCSV(p, delimiter)
	if err != nil {
		return err
	}
	return writeAll(w, FormatCSV, data)
}

// WriteCSVFile writes p to path as CSV, replacing any previous contents.
func (c *Codec) WriteCSVFile(path string, p community.Partition, delimiter string) (err error) {
	done := c.track(FormatCSV, opWrite, path)
	defer func() { done(p, err) }()

	data, err := encodeCSV(p, delimiter)
	if err != nil {
		return withPath(err, path)
	}
	return withPath(writeFile(path, c.fileMode, FormatCSV, data), path)
}

// ReadCSV reads one community per non-blank line of r.
// The result carries no metadata.
func (c *Codec) ReadCSV(r io.Reader, opts ...CSVOption) (nc *community.NodeClustering, err error) {
	done := c.track(FormatCSV, opRead, "")
	defer func() { done(nc, err) }()

	return decodeCSV(r, newCSVOptions(opts))
}

// ReadCSVFile reads a CSV partition from path.
func (c *Codec) ReadCSVFile(path string, opts ...CSVOption) (nc *community.NodeClustering, err error) {
	done := c.track(FormatCSV, opRead, path)
	defer func() { done(nc, err) }()

	f, err := openFile(path, FormatCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nc, err = decodeCSV(f, newCSVOptions(opts))
	return nc, withPath(err, path)
}

func encodeCSV(p community.Partition, delimiter string) ([]byte, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	rows, err := csvRows(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, row := range rows {
		buf.WriteString(strings.Join(row, delimiter))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func csvRows(p community.Partition) ([][]string, error) {
	if community.IsNil(p) || p.Len() == 0 {
		return nil, NewError(opWrite, FormatCSV).Kind(ErrSchema).Causef("partition has no communities").Err()
	}

	var rows [][]string
	switch c := p.(type) {
	case *community.NodeClustering:
		rows = lo.Map(c.Communities, nodeRow)
	case *community.FuzzyNodeClustering:
		rows = lo.Map(c.Communities, nodeRow)
	case *community.EdgeClustering:
		rows = lo.Map(c.Communities, func(edges []community.Edge, _ int) []string {
			return lo.Map(edges, func(e community.Edge, _ int) string { return e.String() })
		})
	default:
		return nil, NewError(opWrite, FormatCSV).Kind(ErrSchema).Causef("unsupported partition type %T", p).Err()
	}

	// Blank lines are skipped on read
	_, i, blank := lo.FindIndexOf(rows, func(row []string) bool {
		return len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "")
	})
	if blank {
		return nil, NewError(opWrite, FormatCSV).Kind(ErrSchema).Field(keyCommunities).Causef("community %d would be written as a blank line", i).Err()
	}
	return rows, nil
}

func nodeRow(nodes []community.Node, _ int) []string {
	return lo.Map(nodes, func(n community.Node, _ int) string { return formatNode(n) })
}

func formatNode(n community.Node) string {
	switch v := n.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func decodeCSV(r io.Reader, o csvOptions) (*community.NodeClustering, error) {
	br := bufio.NewReader(r)
	communities := make([][]community.Node, 0)

	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, NewError(opRead, FormatCSV).Line(lineNo).Kind(ErrIO).Cause(readErr).Err()
		}

		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line != "" {
			tokens := strings.Split(line, o.delimiter)
			nodes := make([]community.Node, len(tokens))
			for i, token := range tokens {
				node, err := o.nodeType(token)
				if err != nil {
					return nil, NewError(opRead, FormatCSV).Line(lineNo).Kind(ErrConversion).Cause(err).Err()
				}
				nodes[i] = node
			}
			communities = append(communities, nodes)
		}

		if readErr != nil {
			break
		}
	}

	return community.NewNodeClustering(communities, community.Metadata{}), nil
}

func openFile(path, format string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewError(opRead, format).Path(path).Kind(ErrIO).Cause(err).Err()
	}
	return f, nil
}

func writeAll(w io.Writer, format string, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return NewError(opWrite, format).Kind(ErrIO).Cause(err).Err()
	}
	return nil
}

func writeFile(path string, mode os.FileMode, format string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return NewError(opWrite, format).Path(path).Kind(ErrIO).Cause(err).Err()
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewError(opWrite, format).Path(path).Kind(ErrIO).Cause(cerr).Err()
		}
	}()

	return writeAll(f, format, data)
}
