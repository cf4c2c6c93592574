// Package cli implements the nfeditor command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"nfeditor/nfe"
	"nfeditor/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

// NewRootCommand builds the nfeditor command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nfeditor",
		Short: "Inspect and edit NF-e invoice documents",
		Long: `nfeditor reads Brazilian NF-e XML documents.

It can:
  - print the invoice header and line items
  - rewrite the issuer name
  - render a PDF summary`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(summaryCmd())

	return rootCmd
}

func extractCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the fields of an NF-e document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			return writeSnapshot(cmd.OutOrStdout(), snap, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", defaultFormat(), "Output format (json, yaml); defaults to $NFE_FORMAT")
	return cmd
}

func editCmd() *cobra.Command {
	var (
		issuerName string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Rewrite editable fields of an NF-e document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var edits nfe.Edits
			if cmd.Flags().Changed("issuer-name") {
				edits.IssuerName = &issuerName
			}

			out, err := nfe.Mutate(string(data), edits)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&issuerName, "issuer-name", "", "New issuer name (emit/xNome)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func summaryCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Render a PDF summary of an NF-e document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}

			pdf, err := report.Summary(snap)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, pdf, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PDF file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func readSnapshot(path string) (nfe.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nfe.Snapshot{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nfe.Extract(string(data))
}

func defaultFormat() string {
	if f := os.Getenv("NFE_FORMAT"); f != "" {
		return f
	}
	return "json"
}

func writeSnapshot(w io.Writer, snap nfe.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}
