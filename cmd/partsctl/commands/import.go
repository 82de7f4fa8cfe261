package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"partsadmin/cmd/partsctl/output"
	"partsadmin/internal/dto"
	"partsadmin/internal/importer"
	"partsadmin/internal/model"
	"partsadmin/internal/repository"
	"partsadmin/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	importFile string
	importOrg  string
	importApp  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk import parts for one organization",
	Long: `Run the same import pipeline as POST /v1/admin/parts/bulk-upload.

Examples:
  partsctl import --file parts.csv --org 5f0c...          # import and grant access
  partsctl import --file parts.xlsx --org 5f0c... --app 9a1e...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := importRequest()
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		svc := service.NewImportService(
			repository.NewPartRepository(db),
			repository.NewOverrideRepository(db),
			repository.NewScopeRepository(db),
			repository.NewOrganizationRepository(db),
		)
		res, err := svc.Import(cmd.Context(), req)
		if err != nil {
			var verr *model.ValidationError
			switch {
			case errors.As(err, &verr):
				return errors.New(firstReason(verr))
			case errors.Is(err, importer.ErrMalformed):
				return fmt.Errorf("file rejected: %w", err)
			}
			return err
		}
		printResults(req.Filename, res)
		return nil
	},
}

func importRequest() (service.ImportRequest, error) {
	orgID, err := uuid.Parse(importOrg)
	if err != nil {
		return service.ImportRequest{}, fmt.Errorf("--org: %w", err)
	}
	data, err := os.ReadFile(importFile)
	if err != nil {
		return service.ImportRequest{}, err
	}
	req := service.ImportRequest{
		OrganizationID: orgID,
		Filename:       filepath.Base(importFile),
		Data:           data,
	}
	if importApp != "" && importApp != model.NoApplication {
		appID, err := uuid.Parse(importApp)
		if err != nil {
			return service.ImportRequest{}, fmt.Errorf("--app: %w", err)
		}
		req.ApplicationID = &appID
	}
	return req, nil
}

func printResults(filename string, res *dto.ImportResults) {
	output.Section(filename)
	fmt.Println(output.Counts(res.Success, res.Failed))
	for _, msg := range res.Errors {
		output.Error("%s", msg)
	}
}

func firstReason(verr *model.ValidationError) string {
	for _, field := range []string{"organization_id", "application_id"} {
		if reason, ok := verr.Fields[field]; ok {
			return reason
		}
	}
	return verr.Error()
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "CSV or XLSX file to import")
	importCmd.Flags().StringVar(&importOrg, "org", "", "Organization granted access to every imported part")
	importCmd.Flags().StringVar(&importApp, "app", "", "Optional application of that organization to scope the parts to")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(importCmd)
}
