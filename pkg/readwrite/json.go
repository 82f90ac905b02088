package readwrite

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"github.com/dd0wney/cluso-partitions/pkg/community"
)

// Document keys
const (
	keyCommunities      = "communities"
	keyAlgorithm        = "algorithm"
	keyParams           = "params"
	keyOverlap          = "overlap"
	keyCoverage         = "coverage"
	keyAllocationMatrix = "allocation_matrix"
)

var requiredKeys = []string{keyCommunities, keyAlgorithm, keyParams, keyOverlap, keyCoverage}

// jsonNumber is a number decoded with UseNumber.
type jsonNumber interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// Numbers are decoded as jsonNumber so integral identifiers survive as int64.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// WriteJSON writes p to w as a single JSON document.
func (c *Codec) WriteJSON(w io.Writer, p community.Partition) (err error) {
	done := c.track(FormatJSON, opWrite, "")
	defer func() { done(p, err) }()

	data, err := encodeJSON(p)
	if err != nil {
		return err
	}
	return writeAll(w, FormatJSON, data)
}

// WriteJSONFile writes p to path as JSON, replacing any previous contents.
// Nothing is written when p cannot be serialized.
func (c *Codec) WriteJSONFile(path string, p community.Partition) (err error) {
	done := c.track(FormatJSON, opWrite, path)
	defer func() { done(p, err) }()

	data, err := encodeJSON(p)
	if err != nil {
		return withPath(err, path)
	}
	return withPath(writeFile(path, c.fileMode, FormatJSON, data), path)
}

// ReadJSON reads a JSON partition document from r.
func (c *Codec) ReadJSON(r io.Reader) (p community.Partition, err error) {
	done := c.track(FormatJSON, opRead, "")
	defer func() { done(p, err) }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewError(opRead, FormatJSON).Kind(ErrIO).Cause(err).Err()
	}
	return decodeJSON(data)
}

// ReadJSONFile reads a JSON partition document from path.
func (c *Codec) ReadJSONFile(path string) (p community.Partition, err error) {
	done := c.track(FormatJSON, opRead, path)
	defer func() { done(p, err) }()

	f, err := openFile(path, FormatJSON)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, NewError(opRead, FormatJSON).Path(path).Kind(ErrIO).Cause(err).Err()
	}

	p, err = decodeJSON(data)
	return p, withPath(err, path)
}

// ReadJSONString decodes a JSON partition document held in text.
func (c *Codec) ReadJSONString(text string) (p community.Partition, err error) {
	done := c.track(FormatJSON, opRead, "")
	defer func() { done(p, err) }()

	return decodeJSON([]byte(text))
}

func encodeJSON(p community.Partition) ([]byte, error) {
	if community.IsNil(p) {
		return nil, NewError(opWrite, FormatJSON).Kind(ErrSchema).Causef("no partition").Err()
	}

	meta := p.Meta()
	doc := map[string]any{
		keyAlgorithm: meta.MethodName,
		keyParams:    jsonValue(meta.MethodParameters),
		keyOverlap:   meta.Overlap,
		keyCoverage:  meta.NodeCoverage,
	}

	switch c := p.(type) {
	case *community.NodeClustering:
		doc[keyCommunities] = lo.Map(c.Communities, jsonNodes)
	case *community.FuzzyNodeClustering:
		doc[keyCommunities] = lo.Map(c.Communities, jsonNodes)
	case *community.EdgeClustering:
		doc[keyCommunities] = lo.Map(c.Communities, func(edges []community.Edge, _ int) [][2]any {
			return lo.Map(edges, func(e community.Edge, _ int) [2]any {
				return [2]any{jsonValue(e[0]), jsonValue(e[1])}
			})
		})
	default:
		return nil, NewError(opWrite, FormatJSON).Kind(ErrSchema).Causef("unsupported partition type %T", p).Err()
	}

	if matrix, ok := community.AllocationMatrix(p); ok {
		doc[keyAllocationMatrix] = jsonValue(matrix)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, NewError(opWrite, FormatJSON).Kind(ErrSerialize).Cause(err).Err()
	}
	return data, nil
}

func decodeJSON(data []byte) (community.Partition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, NewError(opRead, FormatJSON).Kind(ErrParse).Causef("empty document").Err()
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewError(opRead, FormatJSON).Kind(ErrParse).Cause(err).Err()
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, schemaError("", "document is %s, not an object", jsonType(raw))
	}

	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			return nil, schemaError(key, "required key missing")
		}
	}

	meta, err := decodeMetadata(doc)
	if err != nil {
		return nil, err
	}

	matrix, fuzzy := doc[keyAllocationMatrix]
	if fuzzy {
		matrix = normalize(matrix)
	}

	rawCommunities, ok := doc[keyCommunities].([]any)
	if !ok {
		return nil, schemaError(keyCommunities, "expected array, got %s", jsonType(doc[keyCommunities]))
	}
	if len(rawCommunities) == 0 {
		return nil, schemaError(keyCommunities, "no communities")
	}

	groups := make([][]any, len(rawCommunities))
	for i, rc := range rawCommunities {
		members, ok := rc.([]any)
		if !ok {
			return nil, schemaError(keyCommunities, "community %d: expected array, got %s", i, jsonType(rc))
		}
		groups[i] = members
	}
	if len(groups[0]) == 0 {
		return nil, schemaError(keyCommunities, "first community is empty, cannot tell nodes from edges")
	}

	if _, isEdge := groups[0][0].([]any); isEdge {
		communities, err := decodeEdgeCommunities(groups)
		if err != nil {
			return nil, err
		}
		return &community.EdgeClustering{
			Metadata:         meta,
			Communities:      communities,
			Fuzzy:            fuzzy,
			AllocationMatrix: matrix,
		}, nil
	}

	communities, err := decodeNodeCommunities(groups)
	if err != nil {
		return nil, err
	}
	if fuzzy {
		return &community.FuzzyNodeClustering{
			Metadata:         meta,
			Communities:      communities,
			AllocationMatrix: matrix,
		}, nil
	}
	return community.NewNodeClustering(communities, meta), nil
}

func decodeMetadata(doc map[string]any) (community.Metadata, error) {
	var meta community.Metadata

	switch v := doc[keyAlgorithm].(type) {
	case string:
		meta.MethodName = v
	case nil:
	default:
		return meta, schemaError(keyAlgorithm, "expected string, got %s", jsonType(v))
	}

	switch v := doc[keyParams].(type) {
	case map[string]any:
		meta.MethodParameters = normalize(v).(map[string]any)
	case nil:
	default:
		return meta, schemaError(keyParams, "expected object, got %s", jsonType(v))
	}

	overlap, ok := doc[keyOverlap].(bool)
	if !ok {
		return meta, schemaError(keyOverlap, "expected bool, got %s", jsonType(doc[keyOverlap]))
	}
	meta.Overlap = overlap

	coverage, ok := doc[keyCoverage].(jsonNumber)
	if !ok {
		return meta, schemaError(keyCoverage, "expected number, got %s", jsonType(doc[keyCoverage]))
	}
	f, err := coverage.Float64()
	if err != nil {
		return meta, schemaError(keyCoverage, "%v", err)
	}
	meta.NodeCoverage = f

	return meta, nil
}

func decodeNodeCommunities(groups [][]any) ([][]community.Node, error) {
	communities := make([][]community.Node, len(groups))
	for i, members := range groups {
		nodes := make([]community.Node, len(members))
		for j, m := range members {
			node, ok := scalarNode(m)
			if !ok {
				return nil, schemaError(keyCommunities, "community %d member %d: expected node identifier, got %s", i, j, jsonType(m))
			}
			nodes[j] = node
		}
		communities[i] = nodes
	}
	return communities, nil
}

func decodeEdgeCommunities(groups [][]any) ([][]community.Edge, error) {
	communities := make([][]community.Edge, len(groups))
	for i, members := range groups {
		edges := make([]community.Edge, len(members))
		for j, m := range members {
			pair, ok := m.([]any)
			if !ok || len(pair) != 2 {
				return nil, schemaError(keyCommunities, "community %d member %d: expected [from, to] edge, got %s", i, j, describe(m))
			}
			from, okFrom := scalarNode(pair[0])
			to, okTo := scalarNode(pair[1])
			if !okFrom || !okTo {
				return nil, schemaError(keyCommunities, "community %d member %d: edge endpoints must be node identifiers", i, j)
			}
			edges[j] = community.Edge{from, to}
		}
		communities[i] = edges
	}
	return communities, nil
}

// scalarNode converts a decoded JSON scalar into a node identifier.
func scalarNode(v any) (community.Node, bool) {
	switch n := v.(type) {
	case string, bool:
		return n, true
	case jsonNumber:
		return number(n), true
	default:
		return nil, false
	}
}

// number picks int64, then uint64 for larger integers, then float64.
// A number written with a fraction or exponent is always a float64.
func number(n jsonNumber) any {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return s
}

// floatValue encodes a float so it reads back as a float.
type floatValue float64

func (f floatValue) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported value %v", v)
	}
	b := strconv.AppendFloat(nil, v, 'g', -1, 64)
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}

// jsonValue wraps the float64 values of v, including those nested in maps
// and slices, as floatValue.
func jsonValue(v any) any {
	switch t := v.(type) {
	case float64:
		return floatValue(t)
	case map[string]any:
		if t == nil {
			return v
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonValue(e)
		}
		return out
	case []any:
		if t == nil {
			return v
		}
		return lo.Map(t, func(e any, _ int) any { return jsonValue(e) })
	default:
		return v
	}
}

func jsonNodes(nodes []community.Node, _ int) []any {
	return lo.Map(nodes, func(n community.Node, _ int) any { return jsonValue(n) })
}

// normalize replaces jsonNumber values inside decoded JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case jsonNumber:
		return number(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case jsonNumber:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func describe(v any) string {
	if arr, ok := v.([]any); ok {
		return fmt.Sprintf("array of %d", len(arr))
	}
	return jsonType(v)
}

func schemaError(field, format string, args ...any) error {
	return NewError(opRead, FormatJSON).Field(field).Kind(ErrSchema).Causef(format, args...).Err()
}
