// Command partition-convert converts a community partition between the CSV
// and JSON formats.
//
//	partition-convert -in communities.csv -out communities.json -algorithm louvain -param resolution=1.0
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-partitions/pkg/community"
	"github.com/dd0wney/cluso-partitions/pkg/logging"
	"github.com/dd0wney/cluso-partitions/pkg/readwrite"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		logging.ErrorLog("partition-convert failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("partition-convert", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFile = fs.String("config", "", "YAML configuration file")
		input      = fs.String("in", "", "Input partition file")
		output     = fs.String("out", "", "Output partition file")
		from       = fs.String("from", "", "Input format: csv or json (default: from extension)")
		to         = fs.String("to", "", "Output format: csv or json (default: from extension)")
		delimiter  = fs.String("delimiter", "", "CSV delimiter (default \",\")")
		nodeType   = fs.String("node-type", "", "CSV node identifier type: string, int or float")
		logLevel   = fs.String("log-level", "", "Log level: debug, info, warn or error")
		algorithm  = fs.String("algorithm", "", "Algorithm name recorded for CSV input")
		overlap    = fs.Bool("overlap", false, "Mark CSV input as overlapping")
		coverage   = fs.Float64("coverage", 0, "Node coverage recorded for CSV input")
		params     = paramFlag{}
	)
	fs.Var(params, "param", "Algorithm parameter key=value recorded for CSV input (repeatable)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config := &Config{}
	if *configFile != "" {
		loaded, err := loadConfig(*configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		config = loaded
	}

	// Flags override the file only when given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			config.Input = *input
		case "out":
			config.Output = *output
		case "from":
			config.From = *from
		case "to":
			config.To = *to
		case "delimiter":
			config.Delimiter = *delimiter
		case "node-type":
			config.NodeType = *nodeType
		case "log-level":
			config.LogLevel = *logLevel
		case "algorithm":
			config.Algorithm = *algorithm
		case "overlap":
			config.Overlap = *overlap
		case "coverage":
			config.Coverage = *coverage
		case "param":
			if config.Params == nil {
				config.Params = map[string]any{}
			}
			for k, v := range params {
				config.Params[k] = v
			}
		}
	})

	if err := config.resolve(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefaultLogger(logging.NewJSONLogger(stderr, logging.ParseLevel(config.LogLevel)).
		With(logging.Component("partition-convert"), logging.RunID(uuid.New().String())))

	logging.Debug("configuration resolved",
		logging.String("from", config.From),
		logging.String("to", config.To),
		logging.String("delimiter", config.Delimiter),
		logging.String("node_type", config.NodeType),
	)
	if config.From == readwrite.FormatJSON && config.hasMetadata() {
		logging.Warn("metadata settings ignored for JSON input", logging.Path(config.Input))
	}

	return convert(config, readwrite.New())
}

func convert(config *Config, codec *readwrite.Codec) error {
	timer := logging.StartTimer(logging.DefaultLogger(), "conversion finished",
		logging.Path(config.Input),
		logging.String("output", config.Output),
		logging.String("from", config.From),
		logging.String("to", config.To),
	)

	p, err := readPartition(config, codec)
	if err != nil {
		timer.EndError(err)
		return err
	}

	if config.To == readwrite.FormatCSV {
		err = codec.WriteCSVFile(config.Output, p, config.Delimiter)
	} else {
		err = codec.WriteJSONFile(config.Output, p)
	}
	if err != nil {
		timer.EndError(err)
		return err
	}

	logging.Info("conversion finished",
		logging.Path(config.Output),
		logging.Variant(p.Kind().String()),
		logging.Communities(p.Len()),
		logging.Latency(timer.Elapsed()),
	)
	return nil
}

func readPartition(config *Config, codec *readwrite.Codec) (community.Partition, error) {
	if config.From == readwrite.FormatJSON {
		return codec.ReadJSONFile(config.Input)
	}

	nc, err := codec.ReadCSVFile(config.Input,
		readwrite.WithDelimiter(config.Delimiter),
		readwrite.WithNodeType(config.nodeType()),
	)
	if err != nil {
		return nil, err
	}
	nc.Metadata = config.metadata()
	return nc, nil
}
