package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
)

func newDatatypesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datatypes",
		Short: "List the datatypes a tag may declare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, dt := range bacnet.Datatypes() {
				fmt.Fprintln(out, dt)
			}
			return nil
		},
	}
}
