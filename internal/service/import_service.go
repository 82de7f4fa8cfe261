package service

import (
	"context"
	"fmt"

	"partsadmin/internal/dto"
	"partsadmin/internal/importer"
	"partsadmin/internal/model"
	"partsadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ImportRequest is one bulk upload: the raw file plus its batch-level targets.
type ImportRequest struct {
	OrganizationID uuid.UUID
	ApplicationID  *uuid.UUID
	Filename       string
	Data           []byte
}

// ImportService runs the bulk import pipeline.
type ImportService interface {
	// Import rejects the whole batch (ValidationError or importer.ErrMalformed)
	// before touching any row when the targets or the file structure are
	// invalid. Otherwise every row is committed independently and the
	// outcome is reported per row.
	Import(ctx context.Context, req ImportRequest) (*dto.ImportResults, error)
}

type importService struct {
	parts     repository.PartRepository
	overrides repository.OverrideRepository
	scopes    repository.ScopeRepository
	orgs      repository.OrganizationRepository
}

func NewImportService(
	parts repository.PartRepository,
	overrides repository.OverrideRepository,
	scopes repository.ScopeRepository,
	orgs repository.OrganizationRepository,
) ImportService {
	return &importService{parts: parts, overrides: overrides, scopes: scopes, orgs: orgs}
}

func (s *importService) Import(ctx context.Context, req ImportRequest) (*dto.ImportResults, error) {
	ok, err := s.orgs.Exists(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("check organization: %w", err)
	}
	if !ok {
		return nil, model.NewValidationError("organization_id", "Invalid organization ID")
	}
	if req.ApplicationID != nil {
		ok, err := s.orgs.ApplicationBelongsTo(ctx, *req.ApplicationID, req.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("check application: %w", err)
		}
		if !ok {
			return nil, model.NewValidationError("application_id", "Invalid application ID for this organization")
		}
	}

	rows, err := importer.Parse(importer.DetectFormat(req.Filename, req.Data), req.Data)
	if err != nil {
		return nil, err
	}

	results := &dto.ImportResults{Errors: []string{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("line", row.Line).Int("success", results.Success).Msg("bulk import interrupted")
			return results, err
		}

		if row.Err == nil {
			row.Err = s.commitRow(ctx, req, row.Record)
		}
		if row.Err != nil {
			results.Failed++
			results.Errors = append(results.Errors, fmt.Sprintf("Row %d: %s", row.Line, row.Err.Error()))
			continue
		}
		results.Success++
	}

	log.Info().
		Str("organization_id", req.OrganizationID.String()).
		Int("success", results.Success).
		Int("failed", results.Failed).
		Msg("bulk import finished")
	return results, nil
}

// commitRow writes the part and an override equal to its own defaults in one
// transaction; a failed override leaves no part behind. The batch-level
// application link is best effort.
func (s *importService) commitRow(ctx context.Context, req ImportRequest, rec *importer.Record) error {
	return runTx(ctx, s.parts.DB(), func(tx *gorm.DB) error {
		part := rec.Part()
		if err := s.parts.WithTx(tx).Create(ctx, part); err != nil {
			return fmt.Errorf("Part creation failed: %w", err)
		}

		detail := model.SnapshotDetail(part.ID, req.OrganizationID, rec.ClientPartNumber, part.DefaultTerms())
		if err := s.overrides.WithTx(tx).Upsert(ctx, &detail); err != nil {
			return fmt.Errorf("Organization details creation failed: %w", err)
		}

		if req.ApplicationID != nil {
			if err := s.scopes.WithTx(tx).LinkApplications(ctx, part.ID, req.OrganizationID, []uuid.UUID{*req.ApplicationID}); err != nil {
				log.Warn().Err(err).
					Str("part_id", part.ID.String()).
					Str("organization_id", req.OrganizationID.String()).
					Str("application_id", req.ApplicationID.String()).
					Msg("application scope insert failed")
			}
		}
		return nil
	})
}
