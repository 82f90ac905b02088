package readwrite

import (
	"io"

	"github.com/dd0wney/cluso-partitions/pkg/community"
)

// WriteCSV writes p to w as CSV using the default Codec.
func WriteCSV(w io.Writer, p community.Partition, delimiter string) error {
	return std.WriteCSV(w, p, delimiter)
}

// WriteCSVFile writes p to path as CSV using the default Codec.
func WriteCSVFile(path string, p community.Partition, delimiter string) error {
	return std.WriteCSVFile(path, p, delimiter)
}

// ReadCSV reads a CSV partition from r using the default Codec.
func ReadCSV(r io.Reader, opts ...CSVOption) (*community.NodeClustering, error) {
	return std.ReadCSV(r, opts...)
}

// ReadCSVFile reads a CSV partition from path using the default Codec.
func ReadCSVFile(path string, opts ...CSVOption) (*community.NodeClustering, error) {
	return std.ReadCSVFile(path, opts...)
}

// WriteJSON writes p to w as JSON using the default Codec.
func WriteJSON(w io.Writer, p community.Partition) error {
	return std.WriteJSON(w, p)
}

// WriteJSONFile writes p to path as JSON using the default Codec.
func WriteJSONFile(path string, p community.Partition) error {
	return std.WriteJSONFile(path, p)
}

// ReadJSON reads a JSON partition from r using the default Codec.
func ReadJSON(r io.Reader) (community.Partition, error) {
	return std.ReadJSON(r)
}

// ReadJSONFile reads a JSON partition from path using the default Codec.
func ReadJSONFile(path string) (community.Partition, error) {
	return std.ReadJSONFile(path)
}

// ReadJSONString decodes a JSON partition from text using the default Codec.
func ReadJSONString(text string) (community.Partition, error) {
	return std.ReadJSONString(text)
}
