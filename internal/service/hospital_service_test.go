package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacq/booking-service/internal/repository"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

func str(s string) *string { return &s }

func validHospital(name string) HospitalInput {
	return HospitalInput{
		Name:       str(name),
		Address:    str("2 Wanglang Rd"),
		District:   str("Bangkok Noi"),
		Province:   str("Bangkok"),
		PostalCode: str("10700"),
		Tel:        str("02-419-7000"),
		Region:     str("Central"),
	}
}

func newHospitalService() *HospitalService {
	return NewHospitalService(repository.NewMemoryHospitalRepository(), repository.NewVacCenterRepository(nil))
}

func TestHospitalServiceCRUD(t *testing.T) {
	svc := newHospitalService()
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	created, err := svc.Create(ctx, validHospital("Siriraj"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siriraj", got.Name)

	updated, err := svc.Update(ctx, created.ID, HospitalInput{Tel: str("02-000-0000")})
	require.NoError(t, err)
	assert.Equal(t, "02-000-0000", updated.Tel)
	assert.Equal(t, "Siriraj", updated.Name, "partial update keeps other fields")

	_, err = svc.Create(ctx, validHospital("Siriraj"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.True(t, apperrors.HasCode(svc.Delete(ctx, created.ID), apperrors.CodeNotFound))
	_, err = svc.Update(ctx, created.ID, HospitalInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestHospitalServiceValidation(t *testing.T) {
	svc := newHospitalService()
	ctx := context.Background()

	cases := map[string]struct {
		in    HospitalInput
		field string
	}{
		"missing name":     {in: HospitalInput{}, field: "name"},
		"long name":        {in: validHospital(strings.Repeat("n", 51)), field: "name"},
		"long postal code": {in: func() HospitalInput { h := validHospital("A"); h.PostalCode = str("123456"); return h }(), field: "postalcode"},
		"blank region":     {in: func() HospitalInput { h := validHospital("A"); h.Region = str("  "); return h }(), field: "region"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			domainErr := apperrors.ToDomainError(err)
			require.NotNil(t, domainErr)
			assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
			assert.Contains(t, domainErr.Details, tc.field)
		})
	}
}

func TestHospitalServiceVacCentersWithoutDatabase(t *testing.T) {
	centers, err := newHospitalService().VacCenters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, centers)
}
