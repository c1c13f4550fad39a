package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/scenegraph/internal/core/codec"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		to     string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Re-encode scene files in another format",
		Long: `Decode each file (format detected) and encode it again.

With a single input and no --out the result is written to stdout;
otherwise one file per input is written to --out with the extension of
the target format.

Examples:
  scenectl convert level.json --to yaml
  scenectl convert scenes/*.yaml --to json-indent --out build/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := a.tk.Encoder.Format()
			if cmd.Flags().Changed("to") {
				f, err := codec.FormatByName(to)
				if err != nil {
					return err
				}
				format = f
			}
			enc := codec.NewEncoder(
				codec.WithFormat(format),
				codec.WithLogger(a.tk.Logger.Named("encoder")),
				codec.WithTracer(a.tk.Tracing.Tracer()),
			)

			if outDir == "" {
				if len(args) > 1 {
					return fmt.Errorf("--out is required with %d inputs", len(args))
				}
				data, err := a.convert(cmd.Context(), enc, args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			dsts, err := outputPaths(args, outDir, format)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.NumCPU())
			for i, in := range args {
				dst := dsts[i]
				g.Go(func() error {
					data, err := a.convert(ctx, enc, in)
					if err != nil {
						return err
					}
					if err := os.WriteFile(dst, data, 0o644); err != nil {
						return err
					}
					a.tk.Logger.Info("converted", log.String("from", in), log.String("to", dst))
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "", "target format: json, json-indent, yaml (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	return cmd
}

func (a *app) convert(ctx context.Context, enc *codec.Encoder, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := a.tk.Decoder.Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var out []byte
	if g.Kind == codec.KindEntity {
		out, err = enc.EncodeEntity(ctx, g.Root)
	} else {
		out, err = enc.EncodeScene(ctx, g.Scene)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// outputPaths maps each input to its file under dir. Two inputs that would
// write the same file are rejected before anything is written.
func outputPaths(inputs []string, dir string, f codec.Format) ([]string, error) {
	owners := make(map[string]string, len(inputs))
	out := make([]string, len(inputs))
	for i, in := range inputs {
		dst := filepath.Join(dir, outputName(in, f))
		if prev, ok := owners[dst]; ok {
			return nil, fmt.Errorf("%s and %s both convert to %s", prev, in, dst)
		}
		owners[dst] = in
		out[i] = dst
	}
	return out, nil
}

func outputName(in string, f codec.Format) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if f == codec.YAML {
		return base + ".yaml"
	}
	return base + ".json"
}
