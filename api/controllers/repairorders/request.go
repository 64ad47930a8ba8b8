package repairorders

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/api/validators"
	"github.com/pyy-alt/ppg-admin-sub000/internal/fileassets"
	internalrepairorders "github.com/pyy-alt/ppg-admin-sub000/internal/repairorders"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/visibility"
)

type uploadRequest struct {
	ObjectName  string `json:"object_name" validate:"required,max=512"`
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=128"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,min=1"`
}

type createRequest struct {
	ID                     *uuid.UUID      `json:"id,omitempty"`
	DealershipID           *uuid.UUID      `json:"dealership_id,omitempty"`
	RoNumber               string          `json:"ro_number" validate:"required,max=64"`
	Vin                    string          `json:"vin" validate:"required,vin"`
	Make                   string          `json:"make" validate:"required,max=64"`
	Year                   int             `json:"year" validate:"required,min=1900"`
	Model                  string          `json:"model" validate:"required,max=64"`
	Customer               string          `json:"customer" validate:"required,max=128"`
	Parts                  []string        `json:"parts" validate:"omitempty,max=200,dive,required,max=64"`
	Estimates              []uploadRequest `json:"estimates" validate:"omitempty,dive"`
	StructuralMeasurements []uploadRequest `json:"structural_measurements" validate:"omitempty,dive"`
	PreRepairPhotos        []uploadRequest `json:"pre_repair_photos" validate:"omitempty,dive"`
}

func (r createRequest) toInput(viewer visibility.Viewer) internalrepairorders.CreateInput {
	input := internalrepairorders.CreateInput{
		Viewer:                 viewer,
		DealershipID:           r.DealershipID,
		RoNumber:               validators.SanitizeString(r.RoNumber, 64),
		Vin:                    validators.NormalizeVIN(r.Vin),
		Make:                   validators.SanitizeString(r.Make, 64),
		Year:                   r.Year,
		Model:                  validators.SanitizeString(r.Model, 64),
		Customer:               validators.SanitizeString(r.Customer, 128),
		Parts:                  r.Parts,
		Estimates:              toUploads(r.Estimates),
		StructuralMeasurements: toUploads(r.StructuralMeasurements),
		PreRepairPhotos:        toUploads(r.PreRepairPhotos),
	}
	if r.ID != nil {
		input.ID = *r.ID
	}
	return input
}

type updateRequest struct {
	RoNumber *string `json:"ro_number,omitempty" validate:"omitempty,min=1,max=64"`
	Vin      *string `json:"vin,omitempty" validate:"omitempty,vin"`
	Make     *string `json:"make,omitempty" validate:"omitempty,min=1,max=64"`
	Year     *int    `json:"year,omitempty" validate:"omitempty,min=1900"`
	Model    *string `json:"model,omitempty" validate:"omitempty,min=1,max=64"`
	Customer *string `json:"customer,omitempty" validate:"omitempty,min=1,max=128"`
}

func (r updateRequest) toInput(viewer visibility.Viewer, repairOrderID uuid.UUID) internalrepairorders.UpdateInput {
	input := internalrepairorders.UpdateInput{
		Viewer:        viewer,
		RepairOrderID: repairOrderID,
		RoNumber:      validators.SanitizeOptional(r.RoNumber, 64),
		Make:          validators.SanitizeOptional(r.Make, 64),
		Year:          r.Year,
		Model:         validators.SanitizeOptional(r.Model, 64),
		Customer:      validators.SanitizeOptional(r.Customer, 128),
	}
	if r.Vin != nil {
		vin := validators.NormalizeVIN(*r.Vin)
		input.Vin = &vin
	}
	return input
}

type supplementRequest struct {
	Parts     []string        `json:"parts" validate:"omitempty,max=200,dive,required,max=64"`
	Estimates []uploadRequest `json:"estimates" validate:"omitempty,dive"`
}

type completeRequest struct {
	PostRepairPhotos []uploadRequest `json:"post_repair_photos" validate:"omitempty,dive"`
}

func toUploads(in []uploadRequest) []fileassets.Upload {
	if len(in) == 0 {
		return nil
	}
	out := make([]fileassets.Upload, 0, len(in))
	for _, u := range in {
		out = append(out, fileassets.Upload{
			ObjectName:  strings.TrimSpace(u.ObjectName),
			FileName:    validators.SanitizeString(u.FileName, 255),
			ContentType: strings.TrimSpace(u.ContentType),
			SizeBytes:   u.SizeBytes,
		})
	}
	return out
}
