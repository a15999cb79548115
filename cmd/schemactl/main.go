// schemactl — офлайн-утилита: рендер, импорт и синхронизация файлов схем
// без запуска сервера.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adminschema/internal/importer"
	"adminschema/internal/logger"
	"adminschema/internal/serializer"
	"adminschema/internal/sink"
	"adminschema/internal/store"
)

var (
	extensions []string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "schemactl",
	Short:         "Render, import and sync admin model schema files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.Init(&logger.Config{Level: level, Format: "console", Output: "stdout"})
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [file...]",
	Short: "Print the canonical schema text of each model in the given files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderFiles(cmd.OutOrStdout(), args)
	},
}

var importCmd = &cobra.Command{
	Use:   "import [folder]",
	Short: "Parse every schema file in a folder and report the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := importer.ImportFolder(cmd.Context(), args[0], importer.JSONParser{}, extensions...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message())
		for _, m := range res.Schemas {
			fmt.Fprintf(out, "  %s\t%s\n", m.Name, filepath.Base(m.SourceFile))
		}
		for _, f := range res.FailedFiles {
			fmt.Fprintf(out, "  FAILED\t%s\n", f)
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [folder]",
	Short: "Rewrite every schema file in a folder in canonical form (with .backup copies)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return syncFolder(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	importCmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to read (default .json,.py)")
	syncCmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to read (default .json,.py)")
	rootCmd.AddCommand(renderCmd, importCmd, syncCmd)
}

func renderFiles(out io.Writer, files []string) error {
	p := importer.JSONParser{}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		models, err := p.ParseSource(data, f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		for _, m := range models {
			text, err := serializer.Serialize(m.ExportDocument())
			if err != nil {
				return fmt.Errorf("%s: %s: %w", f, m.Name, err)
			}
			fmt.Fprintln(out, text)
		}
	}
	return nil
}

func syncFolder(ctx context.Context, out io.Writer, dir string) error {
	res, err := importer.ImportFolder(ctx, dir, importer.JSONParser{}, extensions...)
	if err != nil {
		return err
	}
	st := store.New(store.WithSink(&sink.LocalSink{}), store.WithLogger(logger.L()))
	st.ImportModels(res.Schemas, res.ParentMenus, dir)

	rep, err := st.SyncToFiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rep.Message())
	for _, r := range rep.Results {
		if r.OK {
			fmt.Fprintf(out, "  ok\t%s\t%s\n", r.FilePath, r.SHA256)
		} else {
			fmt.Fprintf(out, "  FAILED\t%s\t%s\n", r.FilePath, r.Error)
		}
	}
	if rep.FailedCount > 0 {
		logger.Warn("sync finished with failures", zap.Int("failed", rep.FailedCount))
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
