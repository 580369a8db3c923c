package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vacq/booking-service/internal/domain"
	"github.com/vacq/booking-service/internal/repository"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

const (
	maxHospitalNameLength = 50
	maxPostalCodeLength   = 5
)

// HospitalInput carries create and update fields. Nil fields are left untouched on update.
type HospitalInput struct {
	Name       *string
	Address    *string
	District   *string
	Province   *string
	PostalCode *string
	Tel        *string
	Region     *string
}

// HospitalService exposes hospital CRUD and the vaccination center listing.
type HospitalService struct {
	hospitals  repository.HospitalRepository
	vacCenters repository.VacCenterRepository
}

// NewHospitalService builds the service.
func NewHospitalService(hospitals repository.HospitalRepository, vacCenters repository.VacCenterRepository) *HospitalService {
	return &HospitalService{hospitals: hospitals, vacCenters: vacCenters}
}

func (s *HospitalService) List(ctx context.Context) ([]domain.Hospital, error) {
	hospitals, err := s.hospitals.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if hospitals == nil {
		hospitals = []domain.Hospital{}
	}
	return hospitals, nil
}

func (s *HospitalService) Get(ctx context.Context, id string) (*domain.Hospital, error) {
	if err := checkHospitalID(id); err != nil {
		return nil, err
	}
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, mapHospitalErr(err, id)
	}
	return h, nil
}

func (s *HospitalService) Create(ctx context.Context, in HospitalInput) (*domain.Hospital, error) {
	h := &domain.Hospital{ID: uuid.NewString()}
	apply(h, in)
	if err := validateHospital(h); err != nil {
		return nil, err
	}
	if err := s.hospitals.Create(ctx, h); err != nil {
		return nil, mapHospitalErr(err, h.ID)
	}
	return h, nil
}

func (s *HospitalService) Update(ctx context.Context, id string, in HospitalInput) (*domain.Hospital, error) {
	if err := checkHospitalID(id); err != nil {
		return nil, err
	}
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, mapHospitalErr(err, id)
	}
	apply(h, in)
	if err := validateHospital(h); err != nil {
		return nil, err
	}
	if err := s.hospitals.Update(ctx, h); err != nil {
		return nil, mapHospitalErr(err, id)
	}
	return h, nil
}

func (s *HospitalService) Delete(ctx context.Context, id string) error {
	if err := checkHospitalID(id); err != nil {
		return err
	}
	if err := s.hospitals.Delete(ctx, id); err != nil {
		return mapHospitalErr(err, id)
	}
	return nil
}

// VacCenters lists the legacy vaccination centers.
func (s *HospitalService) VacCenters(ctx context.Context) ([]domain.VacCenter, error) {
	centers, err := s.vacCenters.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return centers, nil
}

func apply(h *domain.Hospital, in HospitalInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&h.Name, in.Name)
	set(&h.Address, in.Address)
	set(&h.District, in.District)
	set(&h.Province, in.Province)
	set(&h.PostalCode, in.PostalCode)
	set(&h.Tel, in.Tel)
	set(&h.Region, in.Region)
}

func validateHospital(h *domain.Hospital) error {
	details := map[string]any{}
	required := map[string]string{
		"name":       h.Name,
		"address":    h.Address,
		"district":   h.District,
		"province":   h.Province,
		"postalcode": h.PostalCode,
		"region":     h.Region,
	}
	for field, value := range required {
		if value == "" {
			details[field] = "please add a " + field
		}
	}
	if utf8.RuneCountInString(h.Name) > maxHospitalNameLength {
		details["name"] = "name can not be more than 50 characters"
	}
	if utf8.RuneCountInString(h.PostalCode) > maxPostalCodeLength {
		details["postalcode"] = "postal code can not be more than 5 digits"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid hospital", details)
	}
	return nil
}

// checkHospitalID treats ids that could never have been issued as missing.
func checkHospitalID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("hospital", map[string]any{"id": id})
	}
	return nil
}

func mapHospitalErr(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("hospital", map[string]any{"id": id})
	case errors.Is(err, repository.ErrDuplicateName):
		return apperrors.NewConflict("hospital name already exists", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
