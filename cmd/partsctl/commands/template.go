package commands

import (
	"os"

	"partsadmin/cmd/partsctl/output"
	"partsadmin/internal/importer"

	"github.com/spf13/cobra"
)

var (
	templateXLSX bool
	templateOut  string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the bulk import template",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := importer.TemplateCSV()
		if templateXLSX {
			var err error
			if data, err = importer.TemplateXLSX(); err != nil {
				return err
			}
		}
		if templateOut == "" || templateOut == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(templateOut, data, 0o644); err != nil {
			return err
		}
		output.Success("template written to %s", templateOut)
		return nil
	},
}

func init() {
	templateCmd.Flags().BoolVar(&templateXLSX, "xlsx", false, "Write an XLSX workbook instead of CSV")
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "Output file (stdout when empty)")
	rootCmd.AddCommand(templateCmd)
}
