// jsonproto converts a JSON (or JSONC/YAML) document into protobuf wire
// bytes, inferring the message schema from the document itself.
//
// Field numbers are positional unless pinned with --field-numbers, a JSON
// object of dotted paths, or taken from an existing message with --proto and
// --message. Besides the encoded bytes the tool can emit the inferred schema
// as .proto source or as a serialized FileDescriptorSet.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"gopkg.in/yaml.v3"

	"github.com/anirudhraja/jsonproto"
	"github.com/anirudhraja/jsonproto/infer"
	"github.com/anirudhraja/jsonproto/internal/version"
	"github.com/anirudhraja/jsonproto/registry"
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
	"github.com/anirudhraja/jsonproto/wire"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	data         string
	dataFile     string
	format       string
	fieldNumbers string
	protoFile    string
	message      string
	configFile   string
	emit         string
	compress     string
	output       string
	fingerprint  string
	fieldOrder   string
	arrayElement string
	maxDepth     int
	verbose      bool
	showVersion  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options

	flagSet := pflag.NewFlagSet("jsonproto", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.data, "data", "{}", "input document text")
	flagSet.StringVar(&opts.dataFile, "data-file", "", "read the input document from this file (- for stdin)")
	flagSet.StringVar(&opts.format, "format", "json", "input format: json, jsonc or yaml")
	flagSet.StringVar(&opts.fieldNumbers, "field-numbers", "", `JSON object of dotted path to field number, e.g. {"address.city":5}`)
	flagSet.StringVar(&opts.protoFile, "proto", "", "take field numbers from a message in this .proto file")
	flagSet.StringVar(&opts.message, "message", "", "message in --proto that describes the document")
	flagSet.StringVar(&opts.configFile, "config", "", "YAML file with max_depth, field_order, fingerprint and array_element")
	flagSet.StringVar(&opts.emit, "emit", "binary", "output: binary, proto or descriptor")
	flagSet.StringVar(&opts.compress, "compress", "none", "compress the output: none, gzip or zstd")
	flagSet.StringVarP(&opts.output, "output", "o", "", "write output to this file instead of stdout")
	flagSet.StringVar(&opts.fingerprint, "fingerprint", "sha1", "message fingerprint digest: sha1 or blake3")
	flagSet.StringVar(&opts.fieldOrder, "field-order", "schema", "field order on the wire: schema or number")
	flagSet.StringVar(&opts.arrayElement, "array-element", "last", "array element that decides the repeated type: last or first")
	flagSet.IntVar(&opts.maxDepth, "max-depth", infer.DefaultMaxDepth, "maximum object nesting")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "jsonproto %s\n", version.Info())
		return 0
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := convert(flagSet, &opts, stdin, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func convert(flagSet *pflag.FlagSet, opts *options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	cfg, err := buildConfig(flagSet, opts)
	if err != nil {
		return err
	}

	root, err := readDocument(opts, stdin)
	if err != nil {
		return err
	}

	overrides, err := loadOverrides(opts)
	if err != nil {
		return err
	}

	converter := jsonproto.New(jsonproto.WithConfig(cfg), jsonproto.WithLogger(logger))
	res, err := converter.Convert(root, overrides)
	if err != nil {
		return err
	}

	out, err := render(res, opts.emit)
	if err != nil {
		return err
	}
	out, err = compress(out, opts.compress)
	if err != nil {
		return err
	}
	logger.Debug("writing output", "emit", opts.emit, "compress", opts.compress, "bytes", len(out))

	if opts.output == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// buildConfig layers defaults, the config file, the environment and then
// explicitly set flags.
func buildConfig(flagSet *pflag.FlagSet, opts *options) (jsonproto.Config, error) {
	cfg := jsonproto.DefaultConfig()
	if opts.configFile != "" {
		var err error
		cfg, err = loadConfigFile(opts.configFile, cfg)
		if err != nil {
			return cfg, err
		}
	}

	cfg, err := jsonproto.ConfigFromEnv(cfg)
	if err != nil {
		return cfg, err
	}

	if flagSet.Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}
	if flagSet.Changed("field-order") {
		cfg.FieldOrder = wire.FieldOrder(opts.fieldOrder)
	}
	if flagSet.Changed("fingerprint") {
		cfg.Fingerprint = schema.HashAlgorithm(opts.fingerprint)
	}
	if flagSet.Changed("array-element") {
		cfg.ArrayElement = infer.ArrayPolicy(opts.arrayElement)
	}
	return cfg, cfg.Validate()
}

func loadConfigFile(path string, base jsonproto.Config) (jsonproto.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func readDocument(opts *options, stdin io.Reader) (tree.Value, error) {
	data := []byte(opts.data)
	switch opts.dataFile {
	case "":
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return tree.Value{}, fmt.Errorf("read stdin: %w", err)
		}
		data = b
	default:
		b, err := os.ReadFile(opts.dataFile)
		if err != nil {
			return tree.Value{}, fmt.Errorf("read data file: %w", err)
		}
		data = b
	}

	var (
		root tree.Value
		err  error
	)
	switch strings.ToLower(opts.format) {
	case "json":
		root, err = tree.ParseJSON(data)
	case "jsonc":
		root, err = tree.ParseJSONC(data)
	case "yaml", "yml":
		root, err = tree.ParseYAML(data)
	default:
		return tree.Value{}, fmt.Errorf("unknown format %q (want json, jsonc or yaml)", opts.format)
	}
	if err != nil {
		return tree.Value{}, fmt.Errorf("parse data: %w", err)
	}
	return root, nil
}

// loadOverrides merges numbers read from --proto with --field-numbers; the
// explicit entries win.
func loadOverrides(opts *options) (schema.Overrides, error) {
	overrides := schema.Overrides{}
	if opts.protoFile != "" {
		if opts.message == "" {
			return nil, fmt.Errorf("--proto requires --message")
		}
		fromProto, err := registry.OverridesFromProtoFile(opts.protoFile, opts.message)
		if err != nil {
			return nil, err
		}
		overrides = fromProto
	} else if opts.message != "" {
		return nil, fmt.Errorf("--message requires --proto")
	}

	explicit, err := jsonproto.ParseFieldNumbers([]byte(opts.fieldNumbers))
	if err != nil {
		return nil, err
	}
	return overrides.Merge(explicit), nil
}

func render(res *jsonproto.Result, emit string) ([]byte, error) {
	switch emit {
	case "binary":
		return res.Bytes, nil
	case "proto":
		return []byte(res.ProtoText()), nil
	case "descriptor":
		set := &descriptorpb.FileDescriptorSet{
			File: []*descriptorpb.FileDescriptorProto{res.FileDescriptor()},
		}
		return proto.Marshal(set)
	default:
		return nil, fmt.Errorf("unknown emit mode %q (want binary, proto or descriptor)", emit)
	}
}

func compress(data []byte, kind string) ([]byte, error) {
	switch kind {
	case "", "none":
		return data, nil
	case "gzip":
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return buf.Bytes(), nil
	case "zstd":
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unknown compression %q (want none, gzip or zstd)", kind)
	}
}
