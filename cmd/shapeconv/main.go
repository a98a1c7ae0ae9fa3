// Command shapeconv translates shape constraint schemas between SHACL
// (Turtle) and ShEx (ShExC). It is a thin caller of the shapeconv library
// facade (SPEC_FULL.md 6): all translation logic lives in internal/.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rdfshapes/shapeconv"
	"github.com/rdfshapes/shapeconv/internal/cliconfig"
	"github.com/rdfshapes/shapeconv/internal/xlog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shapeconv",
		Short: "Translate shape constraint schemas between SHACL and ShEx",
	}
	root.AddCommand(newConvertCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	var from, to, outPath, logLevel string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a SHACL or ShEx schema file to the other language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if outPath != "" {
				overrides["outpath"] = outPath
			}
			if logLevel != "" {
				overrides["loglevel"] = logLevel
			}
			cfg, err := cliconfig.Load(overrides)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := xlog.New(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer logger.Sync()

			return runConvert(args[0], from, to, cfg.OutPath, logger)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", `source format: "shacl" or "shex" (required)`)
	cmd.Flags().StringVar(&to, "to", "", `target format: "shacl" or "shex" (required)`)
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (default: stdout)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(path, from, to, outPath string, logger *zap.Logger) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch {
	case from == "shacl" && to == "shex":
		return convertSHACLToShEx(in, out, logger)
	case from == "shex" && to == "shacl":
		return convertShExToSHACL(in, out, logger)
	default:
		return fmt.Errorf("unsupported conversion: --from %s --to %s (supported: shacl->shex, shex->shacl)", from, to)
	}
}

func convertSHACLToShEx(in *os.File, out *os.File, logger *zap.Logger) error {
	text, _, err := shapeconv.SHACLToShExWithLogger(in, logger)
	if err != nil {
		return err
	}
	_, err = out.WriteString(text)
	return err
}

func convertShExToSHACL(in *os.File, out *os.File, logger *zap.Logger) error {
	b, err := os.ReadFile(in.Name())
	if err != nil {
		return err
	}
	_, err = shapeconv.ShExToSHACLWithLogger(string(b), out, logger)
	return err
}

