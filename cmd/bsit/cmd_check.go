package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JoelBender/bsit-tags/pkg/document"
	"github.com/JoelBender/bsit-tags/pkg/tagname"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <document>",
		Short: "Validate each tag of a document",
		Long:  "Print one row per tag with its parsed kind, datatype and whether it translates.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.LoadFromPath(args[0])
			if err != nil {
				return err
			}
			obj, err := doc.Descriptor()
			if err != nil {
				return err
			}
			pairs := doc.Pairs()
			result := translate.Build(obj, pairs, a.cfg.TranslateOptions(a.logger)...)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Object: %s (%s)\n", obj.Name, obj.Identifier.Text())

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tKIND\tDATATYPE\tVALUE\tSTATUS")
			for i, pair := range pairs {
				kind := "-"
				if desc, err := tagname.Parse(pair.Name); err == nil {
					kind = desc.Kind.String()
				}
				status := "ok"
				if err, failed := result.Errors[i]; failed {
					status = err.Error()
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, pair.Name, kind, pair.Datatype, pair.Value, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !result.OK() {
				return fmt.Errorf("%d of %d tag(s) invalid", len(result.Errors), len(pairs))
			}
			return nil
		},
	}
}
