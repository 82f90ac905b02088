package readwrite

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-partitions/pkg/community"
	"github.com/dd0wney/cluso-partitions/pkg/logging"
	"github.com/dd0wney/cluso-partitions/pkg/metrics"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	return New(WithLogger(logging.NewNopLogger()), WithMetrics(metrics.NewRegistry()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("device full") }

func TestCSV_RoundTripStrings(t *testing.T) {
	c := newTestCodec(t)
	p := community.NewNodeClustering([][]community.Node{{"1", "2"}, {"3"}}, community.Metadata{})

	var buf bytes.Buffer
	require.NoError(t, c.WriteCSV(&buf, p, ","))
	assert.Equal(t, "1,2\n3\n", buf.String())

	got, err := c.ReadCSV(&buf, WithDelimiter(","), WithNodeType(AsString))
	require.NoError(t, err)
	assert.Equal(t, [][]community.Node{{"1", "2"}, {"3"}}, got.Communities)
}

func TestCSV_RoundTripInts(t *testing.T) {
	c := newTestCodec(t)
	p := community.NewNodeClustering([][]community.Node{{1, 2}, {3, 4}}, community.Metadata{})

	var buf bytes.Buffer
	require.NoError(t, c.WriteCSV(&buf, p, ","))

	got, err := c.ReadCSV(&buf, WithNodeType(AsInt))
	require.NoError(t, err)
	assert.Equal(t, [][]community.Node{{1, 2}, {3, 4}}, got.Communities)
}

func TestCSV_NodeTypes(t *testing.T) {
	tests := []struct {
		name     string
		nodeType NodeType
		input    string
		expected [][]community.Node
	}{
		{"default string", nil, "a,b\n", [][]community.Node{{"a", "b"}}},
		{"int64", AsInt64, "10,-2\n", [][]community.Node{{int64(10), int64(-2)}}},
		{"uint64", AsUint64, "7\n", [][]community.Node{{uint64(7)}}},
		{"float", AsFloat, "0.5,2\n", [][]community.Node{{0.5, 2.0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestCodec(t).ReadCSV(strings.NewReader(tt.input), WithNodeType(tt.nodeType))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Communities)
		})
	}
}

func TestCSV_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		expected  string
	}{
		{"empty means comma", "", "a,b\nc\n"},
		{"semicolon", ";", "a;b\nc\n"},
		{"tab", "\t", "a\tb\nc\n"},
		{"multi-char", "::", "a::b\nc\n"},
	}

	p := community.NewNodeClustering([][]community.Node{{"a", "b"}, {"c"}}, community.Metadata{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCodec(t)

			var buf bytes.Buffer
			require.NoError(t, c.WriteCSV(&buf, p, tt.delimiter))
			assert.Equal(t, tt.expected, buf.String())

			got, err := c.ReadCSV(&buf, WithDelimiter(tt.delimiter))
			require.NoError(t, err)
			assert.Equal(t, p.Communities, got.Communities)
		})
	}
}

func TestReadCSV_SkipsBlankLinesAndTrailingSpace(t *testing.T) {
	got, err := newTestCodec(t).ReadCSV(strings.NewReader("1,2\r\n\r\n\n3  \n4"))
	require.NoError(t, err)
	assert.Equal(t, [][]community.Node{{"1", "2"}, {"3"}, {"4"}}, got.Communities)
}

func TestReadCSV_NoMetadata(t *testing.T) {
	got, err := newTestCodec(t).ReadCSV(strings.NewReader("1,2\n"))
	require.NoError(t, err)

	assert.Equal(t, community.KindNode, got.Kind())
	assert.Equal(t, community.Metadata{}, got.Meta())
}

func TestReadCSV_Empty(t *testing.T) {
	got, err := newTestCodec(t).ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestReadCSV_ConversionError(t *testing.T) {
	_, err := newTestCodec(t).ReadCSV(strings.NewReader("1,2\n3,x\n"), WithNodeType(AsInt))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConversion))

	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Line)
	assert.Equal(t, FormatCSV, ce.Format)
}

func TestReadCSV_ReaderFailure(t *testing.T) {
	_, err := newTestCodec(t).ReadCSV(iotest.ErrReader(errors.New("disk gone")))
	require.Error(t, err)
	assert.True(t, IsIO(err))
}

// A node whose text contains the delimiter does not survive a round trip.
func TestCSV_DelimiterCollisionIsLossy(t *testing.T) {
	c := newTestCodec(t)
	p := community.NewNodeClustering([][]community.Node{{"a,b", "c"}}, community.Metadata{})

	var buf bytes.Buffer
	require.NoError(t, c.WriteCSV(&buf, p, ","))

	got, err := c.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, [][]community.Node{{"a", "b", "c"}}, got.Communities)
	assert.NotEqual(t, p.Communities, got.Communities)
}

func TestWriteCSV_Variants(t *testing.T) {
	tests := []struct {
		name     string
		p        community.Partition
		expected string
	}{
		{
			name:     "fuzzy node",
			p:        &community.FuzzyNodeClustering{Communities: [][]community.Node{{"x", 1.5}, {uint64(9)}}},
			expected: "x,1.5\n9\n",
		},
		{
			name:     "edge",
			p:        &community.EdgeClustering{Communities: [][]community.Edge{{{1, 2}, {2, 3}}, {{"a", "b"}}}},
			expected: "1-2,2-3\na-b\n",
		},
		{
			name:     "mixed scalars",
			p:        community.NewNodeClustering([][]community.Node{{int64(-4), true}}, community.Metadata{}),
			expected: "-4,true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, newTestCodec(t).WriteCSV(&buf, tt.p, ","))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSV_EmptyPartition(t *testing.T) {
	c := newTestCodec(t)

	err := c.WriteCSV(&bytes.Buffer{}, community.NewNodeClustering(nil, community.Metadata{}), ",")
	assert.True(t, IsSchema(err))

	err = c.WriteCSV(&bytes.Buffer{}, nil, ",")
	assert.True(t, IsSchema(err))
}

func TestWriteCSV_RejectsBlankCommunities(t *testing.T) {
	tests := []struct {
		name string
		p    community.Partition
	}{
		{"empty node community", community.NewNodeClustering([][]community.Node{{"a"}, {}}, community.Metadata{})},
		{"empty string node", community.NewNodeClustering([][]community.Node{{"a"}, {"  "}}, community.Metadata{})},
		{"empty edge community", &community.EdgeClustering{Communities: [][]community.Edge{{}, {{1, 2}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := newTestCodec(t).WriteCSV(&buf, tt.p, ",")

			var codecErr *CodecError
			require.ErrorAs(t, err, &codecErr)
			assert.ErrorIs(t, err, ErrSchema)
			assert.Equal(t, "communities", codecErr.Field)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestWriteCSV_WriterFailure(t *testing.T) {
	p := community.NewNodeClustering([][]community.Node{{"1"}}, community.Metadata{})

	err := newTestCodec(t).WriteCSV(failingWriter{}, p, ",")
	require.Error(t, err)
	assert.True(t, IsIO(err))
}

func TestCSVFile_RoundTripAndOverwrite(t *testing.T) {
	c := newTestCodec(t)
	path := filepath.Join(t.TempDir(), "communities.csv")

	require.NoError(t, os.WriteFile(path, []byte("old,content,that,is,longer\nmore\nlines\n"), 0o644))

	p := community.NewNodeClustering([][]community.Node{{"1", "2"}, {"3"}}, community.Metadata{})
	require.NoError(t, c.WriteCSVFile(path, p, ","))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n3\n", string(data))

	got, err := c.ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.Communities, got.Communities)
}

func TestReadCSVFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := newTestCodec(t).ReadCSVFile(path)
	require.Error(t, err)
	assert.True(t, IsIO(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, path, ce.Path)
}

func TestReadCSVFile_ConversionErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("1\nz\n"), 0o644))

	_, err := newTestCodec(t).ReadCSVFile(path, WithNodeType(AsInt))

	var ce *CodecError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, path, ce.Path)
	assert.Equal(t, 2, ce.Line)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestWriteCSVFile_BadDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "x.csv")
	p := community.NewNodeClustering([][]community.Node{{"1"}}, community.Metadata{})

	err := newTestCodec(t).WriteCSVFile(path, p, ",")
	assert.True(t, IsIO(err))
}

func TestWriteCSVFile_FileMode(t *testing.T) {
	c := New(WithLogger(logging.NewNopLogger()), WithMetrics(metrics.NewRegistry()), WithFileMode(0o600))
	path := filepath.Join(t.TempDir(), "private.csv")
	p := community.NewNodeClustering([][]community.Node{{"1"}}, community.Metadata{})

	require.NoError(t, c.WriteCSVFile(path, p, ","))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm()&0o600)
	assert.Zero(t, info.Mode().Perm()&0o077)
}
