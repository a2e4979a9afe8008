/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/activerecord"
)

func rootFormat(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("format"); f != nil {
		return f.Value.String()
	}
	return "text"
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := activerecord.GetVersionInfo()
			if rootFormat(cmd) == "json" {
				text, err := json.MarshalToString(info)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recordctl %s\n", info)
			return nil
		},
	}
}
