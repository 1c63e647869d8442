package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/apitypegen/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "manage annotated type snapshots",
	}
	snapshotCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "api/manifest.yaml", "manifest recording the snapshots")

	var name, version string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "annotate the input document and record it as a new snapshot",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c)
			if err != nil {
				return err
			}
			outFile, err := snapshot.Generate(c.Context(), options, manifestPath, name, version)
			if err != nil {
				return err
			}
			slog.Info("recorded snapshot", "name", name, "version", version, "file", outFile)
			return nil
		},
	}
	addOptionFlags(createCmd)
	createCmd.Flags().StringVarP(&name, "name", "n", "api", "snapshot name")
	createCmd.Flags().StringVarP(&version, "version", "v", "", "snapshot version")
	_ = createCmd.MarkFlagRequired("version")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, s := range m.Snapshots {
				marker := " "
				switch s.Version {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				_, _ = fmt.Fprintf(out, "%s %s %s %s (%d models, %d operations)\n",
					marker, s.Name, s.Version, s.File, s.Models, s.Operations)
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				slog.Info("no changes between snapshots")
				return nil
			}
			_, err = fmt.Fprint(c.OutOrStdout(), diff)
			return err
		},
	}

	snapshotCmd.AddCommand(createCmd, listCmd, diffCmd)
	return snapshotCmd
}
