package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zeusync/scenegraph/internal/core/codec"
	"github.com/zeusync/scenegraph/internal/core/record"
)

// envelopeView reads either envelope kind without building objects.
type envelopeView struct {
	Version    codec.Version    `json:"version" yaml:"version"`
	Kind       string           `json:"kind" yaml:"kind"`
	Name       string           `json:"name,omitempty" yaml:"name,omitempty"`
	Path       string           `json:"path,omitempty" yaml:"path,omitempty"`
	BuildIndex int              `json:"buildIndex,omitempty" yaml:"buildIndex,omitempty"`
	RootIDs    []string         `json:"rootIds,omitempty" yaml:"rootIds,omitempty"`
	RootID     string           `json:"rootId,omitempty" yaml:"rootId,omitempty"`
	Records    []*record.Record `json:"records" yaml:"records"`
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize an envelope without decoding it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var env envelopeView
			if err := codec.Unmarshal(data, &env); err != nil {
				return err
			}
			if env.Kind == "" {
				env.Kind = codec.KindScene
			}
			sum, err := codec.Checksum(&env)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:  %s\n", env.Version)
			fmt.Fprintf(out, "kind:     %s\n", env.Kind)
			if env.Kind == codec.KindEntity {
				fmt.Fprintf(out, "root:     %s\n", env.RootID)
			} else {
				fmt.Fprintf(out, "scene:    %s (%s, build index %d)\n", env.Name, env.Path, env.BuildIndex)
				for _, id := range env.RootIDs {
					fmt.Fprintf(out, "root:     %s\n", id)
				}
			}
			fmt.Fprintf(out, "records:  %d\n", len(env.Records))
			counts := countTypes(env.Records)
			tags := make([]string, 0, len(counts))
			for tag := range counts {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				known := ""
				if !a.tk.Registry.Has(tag) {
					known = " (unregistered)"
				}
				fmt.Fprintf(out, "  %-20s %d%s\n", tag, counts[tag], known)
			}
			fmt.Fprintf(out, "checksum: %016x\n", sum)
			return nil
		},
	}
}

func countTypes(records []*record.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Type]++
	}
	return counts
}
