package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/apitypegen/pkg/action/annotate"
)

func init() {
	var annotateCmd = NewAnnotateCommand()
	rootCmd.AddCommand(annotateCmd)
}

func NewAnnotateCommand() *cobra.Command {
	// annotateCmd represents the apitypegen annotate command
	var annotateCmd = &cobra.Command{
		Use:   "annotate",
		Short: "annotate schema types",
		Long:  "Resolve every model property and operation parameter of an OpenAPI document into entity, documentation and hint types",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c)
			if err != nil {
				return err
			}
			_, _, err = annotate.Generate(c.Context(), options)
			return err
		},
	}
	addOptionFlags(annotateCmd)

	return annotateCmd
}
