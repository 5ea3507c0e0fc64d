package main

import (
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JoelBender/bsit-tags/pkg/translate"
)

func newRunsCmd(a *app) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived translation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			runs, err := archive.Runs()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No archived runs")
			} else {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tOBJECT\tNAME\tTRIPLES\tERRORS\tCREATED")
				for _, run := range runs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
						run.ID, run.Label, run.Object, run.Triples, len(run.Errors), humanize.Time(run.Created))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if !stats {
				return nil
			}
			count, err := archive.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s runs, %s quads", humanize.Comma(int64(len(runs))), humanize.Comma(count))
			if size, err := dirSize(a.cfg.Store.Path); err == nil && size > 0 {
				fmt.Fprintf(out, ", %s on disk", humanize.Bytes(size))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Print archive totals")
	cmd.AddCommand(newRunsShowCmd(a), newRunsExportCmd(a))
	return cmd
}

func newRunsShowCmd(a *app) *cobra.Command {
	var triples bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the Turtle of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id: %w", err)
			}

			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			defer archive.Close()

			run, err := archive.Run(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if triples {
				g, err := archive.Graph(id)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, translate.NTriples(g))
				return err
			}

			fmt.Fprintf(out, "# %s %s (%s), %s\n", run.ID, run.Label, run.Object, run.Created.Format("2006-01-02 15:04:05Z07:00"))
			for _, i := range slices.Sorted(maps.Keys(run.Errors)) {
				fmt.Fprintf(out, "# error %d: %s\n", i, run.Errors[i])
			}
			_, err = io.WriteString(out, run.Turtle)
			return err
		},
	}

	cmd.Flags().BoolVar(&triples, "triples", false, "Print the archived triples as N-Triples")
	return cmd
}

func newRunsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every archived run as N-Quads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			defer archive.Close()
			return archive.Export(cmd.OutOrStdout())
		},
	}
}

// dirSize sums the sizes of the regular files under root
func dirSize(root string) (uint64, error) {
	if root == "" {
		return 0, nil
	}
	var size uint64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size += uint64(info.Size()) // #nosec G115 - file sizes are non-negative
		}
		return nil
	})
	return size, err
}
