// ABOUTME: Non-interactive knowledge-base commands: list, upload, delete
// ABOUTME: Talk to the configured document store directly and report failures as errors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDocsCmd() *cobra.Command {
	docs := &cobra.Command{
		Use:   "docs",
		Short: "Manage knowledge-base documents",
	}

	docs.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.docs.List(cmd.Context(), a.cfg.Knowledge.RAGID)
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			renderDocuments(cmd.OutOrStdout(), list)
			return nil
		},
	})

	docs.AddCommand(&cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload .pdf, .docx, or .txt files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				err = a.docs.Upload(cmd.Context(), a.cfg.Knowledge.RAGID, filepath.Base(path), f)
				f.Close()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: uploaded\n", filepath.Base(path))
			}
			return nil
		},
	})

	docs.AddCommand(&cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete documents by file name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.docs.Delete(cmd.Context(), a.cfg.Knowledge.RAGID, args); err != nil {
				return fmt.Errorf("deleting documents: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d document(s)\n", len(args))
			return nil
		},
	})

	return docs
}
