package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JoelBender/bsit-tags/internal/storage"
	"github.com/JoelBender/bsit-tags/pkg/config"
	"github.com/JoelBender/bsit-tags/pkg/store"
)

var errNoArchive = errors.New("no archive configured; set store.path or pass --store")

// app carries the global flags and what they resolve to
type app struct {
	configPath string
	logLevel   string
	vendorID   int
	baseIRI    string
	storePath  string
	markerTags bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bsit",
		Short: "Translate BACnet object tags into RDF",
		Long: "bsit reads an object description and its ordered tags from a YAML or JSON\n" +
			"document and emits the resulting RDF graph as Turtle.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "Config file (YAML or JSON)")
	f.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.IntVar(&a.vendorID, "vendor", 0, "Vendor id for the default base IRI")
	f.StringVar(&a.baseIRI, "base", "", "Initial base IRI")
	f.StringVar(&a.storePath, "store", "", "Run archive directory")
	f.BoolVar(&a.markerTags, "marker-tags", false, "Emit rdf:type triples for value-less tags")

	root.AddCommand(
		newTranslateCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newRunsCmd(a),
		newDatatypesCmd(a),
	)
	return root
}

// setup loads the config and applies flag overrides
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.LoadFromPath(a.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("vendor") {
		cfg.VendorID = a.vendorID
	}
	if flags.Changed("base") {
		cfg.BaseIRI = a.baseIRI
	}
	if flags.Changed("store") {
		cfg.Store.Path = a.storePath
	}
	if flags.Changed("marker-tags") {
		cfg.MarkerTags = a.markerTags
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, _ := cfg.Level()
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// openArchive opens the configured run archive
func (a *app) openArchive() (*store.Archive, error) {
	if !a.cfg.Store.Enabled() {
		return nil, errNoArchive
	}
	opts := []storage.Option{storage.WithLogger(a.logger)}
	if a.cfg.Store.InMemory {
		opts = append(opts, storage.InMemory())
	}
	archive, err := storage.OpenArchive(a.cfg.Store.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return archive, nil
}
