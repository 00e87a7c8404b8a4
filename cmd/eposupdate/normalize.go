package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"eposupdate/internal/recordid"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [id...]",
		Short: "Convert 15-character record ids to their 18-character form",
		Long: `Prints the canonical form of each id given as an argument, or of each
line read from standard input when no arguments are given. Ids that are not
15 characters long are printed unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				for _, id := range args {
					fmt.Fprintln(cmd.OutOrStdout(), recordid.Normalize(strings.TrimSpace(id)))
				}
				return nil
			}
			return normalizeLines(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// normalizeLines normalizes one id per input line, skipping blank lines.
func normalizeLines(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, recordid.Normalize(id)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
