package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JoelBender/bsit-tags/pkg/document"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

func newTranslateCmd(a *app) *cobra.Command {
	var flags struct {
		ntriples bool
		save     bool
	}

	cmd := &cobra.Command{
		Use:   "translate <document>",
		Short: "Translate a tag document to Turtle",
		Long: "Translate a YAML or JSON tag document (\"-\" reads stdin) and write the graph\n" +
			"to stdout. Tags that fail are reported on stderr; the rest are still translated.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.translate(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.ntriples {
				_, err = io.WriteString(out, translate.NTriples(result.Graph))
			} else {
				err = translate.WriteTurtle(out, result.Graph, result.Context.Prefixes())
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if flags.save {
				archive, err := a.openArchive()
				if err != nil {
					return err
				}
				defer archive.Close()

				run, err := archive.SaveRun(result)
				if err != nil {
					return fmt.Errorf("save run: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", run.ID)
			}

			return reportTagErrors(cmd.ErrOrStderr(), result)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.ntriples, "ntriples", false, "Write canonical N-Triples instead of Turtle")
	f.BoolVar(&flags.save, "save", false, "Archive the run")
	return cmd
}

// translate loads a document and builds its graph with the configured options
func (a *app) translate(cmd *cobra.Command, path string) (*translate.Result, error) {
	var (
		doc *document.Document
		err error
	)
	if path == "-" {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return nil, fmt.Errorf("read stdin: %w", readErr)
		}
		doc, err = document.Load(data, "")
	} else {
		doc, err = document.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}

	result, err := doc.Translate(a.cfg.TranslateOptions(a.logger)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return result, nil
}

// reportTagErrors lists failed tags and fails the command when there are any
func reportTagErrors(w io.Writer, result *translate.Result) error {
	if result.OK() {
		return nil
	}
	for _, i := range result.ErrorIndexes() {
		if i == translate.ObjectErrorKey {
			fmt.Fprintf(w, "object: %v\n", result.Errors[i])
			continue
		}
		fmt.Fprintf(w, "tag %d: %v\n", i+1, result.Errors[i])
	}
	return fmt.Errorf("%d tag error(s)", len(result.Errors))
}
