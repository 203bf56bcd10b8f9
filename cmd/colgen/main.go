package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmrzaf/colgen/internal/app"
	"github.com/mmrzaf/colgen/internal/config"
	"github.com/mmrzaf/colgen/internal/domain"
	"github.com/mmrzaf/colgen/internal/exec"
	"github.com/mmrzaf/colgen/internal/generators"
	"github.com/mmrzaf/colgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/colgen/internal/infra/sinks/arrowipc"
	"github.com/mmrzaf/colgen/internal/infra/sinks/jsonl"
	"github.com/mmrzaf/colgen/internal/infra/sinks/tabular"
	"github.com/mmrzaf/colgen/internal/logging"
	"github.com/mmrzaf/colgen/internal/registry"
	"github.com/mmrzaf/colgen/internal/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type cliEnv struct {
	cfg        *config.Config
	schemasDir string
	logLevel   string
	reg        *registry.GeneratorRegistry
}

func (e *cliEnv) logger(w io.Writer) (*logging.Logger, func()) {
	if e.cfg.LogFile == "" {
		return logging.NewLoggerWithWriter(e.logLevel, w), func() {}
	}
	l, closer := logging.NewFileLogger(e.logLevel, w, logging.FileOptions{
		Path: e.cfg.LogFile, MaxSizeMB: 50, MaxBackups: 3, MaxAgeDays: 14,
	})
	return l, func() { _ = closer.Close() }
}

func (e *cliEnv) genRegistry() *registry.GeneratorRegistry {
	if e.reg == nil {
		e.reg = registry.DefaultGeneratorRegistry()
	}
	return e.reg
}

func (e *cliEnv) service(logger *logging.Logger) *app.SampleService {
	return app.NewSampleService(
		schemas.NewFileRepository(e.schemasDir),
		e.genRegistry(),
		app.Defaults{
			NullThreshold:      e.cfg.NullThreshold,
			ArrayNullThreshold: e.cfg.ArrayNullThreshold,
			NaNPercent:         e.cfg.NaNPercent,
			BatchSize:          e.cfg.BatchSize,
		},
		logger,
	)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	env := &cliEnv{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:          "colgen",
		Short:        "Random column value generator for test fixtures",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&env.schemasDir, "schemas-dir", cfg.SchemasDir, "Schemas directory")
	rootCmd.PersistentFlags().StringVar(&env.logLevel, "log-level", cfg.LogLevel, "Log level")

	rootCmd.AddCommand(schemaCmd(env))
	rootCmd.AddCommand(sampleCmd(env))
	rootCmd.AddCommand(decimalCmd())
	return rootCmd
}

func schemaCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect schema files",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := schemas.NewFileRepository(env.schemasDir).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Fprintln(out, string(data))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDIALECT\tTABLES")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Dialect, len(s.Tables))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show schema details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemas.NewFileRepository(env.schemasDir).Get(args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchemaArg(env.schemasDir, args[0])
			if err != nil {
				return err
			}

			logger, done := env.logger(cmd.ErrOrStderr())
			defer done()
			if err := env.service(logger).ValidateSchema(s); err != nil {
				return fmt.Errorf("schema %q is invalid: %w", s.ID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %q is valid (%d tables)\n", s.ID, len(s.Tables))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

// loadSchemaArg treats arguments that look like files as paths, anything else
// as an id in the schemas directory.
func loadSchemaArg(dir, arg string) (*schema.Schema, error) {
	if strings.ContainsRune(arg, os.PathSeparator) || strings.HasSuffix(arg, ".yaml") ||
		strings.HasSuffix(arg, ".yml") || strings.HasSuffix(arg, ".json") {
		return schemas.LoadFile(arg)
	}
	return schemas.NewFileRepository(dir).Get(arg)
}

func sampleCmd(env *cliEnv) *cobra.Command {
	var (
		schemaID           string
		schemaPath         string
		table              string
		rows               int
		seed               int64
		nullThreshold      int
		arrayNullThreshold int
		nanPercent         int
		notNull            []string
		format             string
		maxCellWidth       int
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate rows for a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (schemaID == "") == (schemaPath == "") {
				return fmt.Errorf("exactly one of --schema or --schema-path is required")
			}
			if format == "" {
				format = env.cfg.DefaultFormat
			}
			if !domain.IsValidFormat(format) {
				return fmt.Errorf("invalid format: %s", format)
			}

			req := &domain.SampleRequest{
				SchemaID:       schemaID,
				Table:          table,
				Rows:           rows,
				NotNullColumns: notNull,
				Format:         format,
			}
			if schemaPath != "" {
				s, err := schemas.LoadFile(schemaPath)
				if err != nil {
					return err
				}
				req.Schema = s
			}
			flags := cmd.Flags()
			if flags.Changed("seed") {
				req.Seed = &seed
			}
			if flags.Changed("null-threshold") {
				req.NullThreshold = &nullThreshold
			}
			if flags.Changed("array-null-threshold") {
				req.ArrayNullThreshold = &arrayNullThreshold
			}
			if flags.Changed("nan-percent") {
				req.NaNPercent = &nanPercent
			}

			out := cmd.OutOrStdout()
			var sink exec.RowSink
			switch format {
			case domain.FormatJSONL:
				sink = jsonl.NewSink(out)
			case domain.FormatArrow:
				sink = arrowipc.NewSink(out, nil, arrowipc.WithNumericLimits(env.genRegistry().NumericLimits()))
			default:
				sink = tabular.NewSink(out, maxCellWidth)
			}

			logger, done := env.logger(cmd.ErrOrStderr())
			defer done()
			res, err := env.service(logger).Sample(cmd.Context(), req, sink)
			if err != nil {
				return err
			}
			logger.Infow("sample.summary", map[string]any{
				"session_id": res.SessionID, "seed": res.Seed, "config_hash": res.ConfigHash,
				"rows": res.Stats.RowsGenerated,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaID, "schema", "", "Schema ID")
	cmd.Flags().StringVar(&schemaPath, "schema-path", "", "Schema file path")
	cmd.Flags().StringVar(&table, "table", "", "Table name")
	cmd.Flags().IntVar(&rows, "rows", 10, "Rows to generate")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.Flags().IntVar(&nullThreshold, "null-threshold", env.cfg.NullThreshold, "Null percentage per value")
	cmd.Flags().IntVar(&arrayNullThreshold, "array-null-threshold", env.cfg.ArrayNullThreshold, "Null percentage per array element")
	cmd.Flags().IntVar(&nanPercent, "nan-percent", env.cfg.NaNPercent, "NaN share of float and PostgreSQL numeric sentinels")
	cmd.Flags().StringSliceVar(&notNull, "not-null", nil, "Columns forced non-nullable")
	cmd.Flags().StringVar(&format, "format", "", "Output format (table|jsonl|arrow)")
	cmd.Flags().IntVar(&maxCellWidth, "max-cell-width", tabular.DefaultMaxCellWidth, "Truncate table cells wider than this (0 disables)")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func decimalCmd() *cobra.Command {
	var (
		precision int
		scale     int
		count     int
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "decimal",
		Short: "Print random decimal literals within precision and scale",
		RunE: func(cmd *cobra.Command, args []string) error {
			limits := generators.DecimalLimits{MaxPrecision: precision, MaxScale: scale}
			if err := limits.Validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				lit := generators.DecimalString(rng, limits)
				if _, err := decimal.NewFromString(lit); err != nil {
					return fmt.Errorf("generated malformed literal %q: %w", lit, err)
				}
				fmt.Fprintln(out, lit)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&precision, "precision", generators.NumericMaxPrecision, "Maximum total digits")
	cmd.Flags().IntVar(&scale, "scale", generators.NumericMaxScale, "Maximum fraction digits")
	cmd.Flags().IntVar(&count, "count", 10, "Number of literals")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	return cmd
}
