package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/server/models"
)

func newProfile(t *testing.T, s *RecordsService, accountID, name string) *models.Profile {
	t.Helper()
	return s.CreateProfile(context.Background(), accountID, &CreateProfileInput{
		FullName:          name,
		DateOfBirth:       "1990-04-12",
		Gender:            "female",
		RelationToAccount: "self",
	})
}

func TestProfileLifecycle(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()

	p := newProfile(t, s, "acc_1", "Jane Doe")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "acc_1", p.AccountID)

	got, err := s.GetProfile(ctx, "acc_1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)

	name := "Jane Smith"
	height := 172.0
	updated, err := s.UpdateProfile(ctx, "acc_1", p.ID, &UpdateProfileInput{
		FullName: &name,
		HeightCm: &height,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.FullName)
	assert.Equal(t, 172.0, updated.HeightCm)
	// Untouched fields survive a partial update.
	assert.Equal(t, "1990-04-12", updated.DateOfBirth)

	require.NoError(t, s.DeleteProfile(ctx, "acc_1", p.ID))
	_, err = s.GetProfile(ctx, "acc_1", p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProfileOwnershipReportsNotFound(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()

	p := newProfile(t, s, "acc_owner", "Jane Doe")

	// Another account asking for an existing profile gets not-found, never
	// a forbidden that would confirm the profile exists.
	_, err := s.GetProfile(ctx, "acc_intruder", p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	name := "Hijacked"
	_, err = s.UpdateProfile(ctx, "acc_intruder", p.ID, &UpdateProfileInput{FullName: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, s.DeleteProfile(ctx, "acc_intruder", p.ID), common.ErrNotFound)

	// The owner is unaffected.
	got, err := s.GetProfile(ctx, "acc_owner", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)
}

func TestProfileSettings(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()

	p := newProfile(t, s, "acc_1", "Jane Doe")
	assert.False(t, p.EmergencyAccessEnabled)

	updated, err := s.UpdateProfileSettings(ctx, "acc_1", p.ID, &ProfileSettingsInput{
		EmergencyAccessEnabled: true,
		DoctorSharingEnabled:   true,
	})
	require.NoError(t, err)
	assert.True(t, updated.EmergencyAccessEnabled)
	assert.True(t, updated.DoctorSharingEnabled)
}

func TestListProfilesPerAccount(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()

	newProfile(t, s, "acc_1", "Jane")
	newProfile(t, s, "acc_1", "Kid")
	newProfile(t, s, "acc_2", "Other")

	assert.Len(t, s.ListProfiles(ctx, "acc_1"), 2)
	assert.Len(t, s.ListProfiles(ctx, "acc_2"), 1)
	assert.Empty(t, s.ListProfiles(ctx, "acc_3"))
}

func addVital(t *testing.T, s *RecordsService, profileID, typ string, at time.Time) *models.Vital {
	t.Helper()
	v, err := s.CreateVital(context.Background(), "acc_1", profileID, &CreateVitalInput{
		Type:       typ,
		Value:      json.RawMessage(`72`),
		Unit:       "bpm",
		RecordedAt: at,
	})
	require.NoError(t, err)
	return v
}

func TestVitalsFilterSortPaginate(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()
	p := newProfile(t, s, "acc_1", "Jane Doe")

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	addVital(t, s, p.ID, "heart_rate", base)
	addVital(t, s, p.ID, "heart_rate", base.Add(48*time.Hour))
	addVital(t, s, p.ID, "heart_rate", base.Add(24*time.Hour))
	addVital(t, s, p.ID, "weight", base.Add(12*time.Hour))

	page, err := s.ListVitals(ctx, "acc_1", p.ID, &VitalsListParams{Type: "heart_rate"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Meta.Total)
	// Newest first.
	assert.True(t, page.Items[0].RecordedAt.After(page.Items[1].RecordedAt))
	assert.True(t, page.Items[1].RecordedAt.After(page.Items[2].RecordedAt))

	page, err = s.ListVitals(ctx, "acc_1", p.ID, &VitalsListParams{
		From: base.Add(6 * time.Hour),
		To:   base.Add(30 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = s.ListVitals(ctx, "acc_1", p.ID, &VitalsListParams{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 4, page.Meta.Total)
}

func TestVitalsGuardedByProfileOwnership(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()
	p := newProfile(t, s, "acc_owner", "Jane Doe")
	v := addVitalOwned(t, s, "acc_owner", p.ID)

	_, err := s.ListVitals(ctx, "acc_intruder", p.ID, &VitalsListParams{})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.GetVital(ctx, "acc_intruder", p.ID, v.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, s.DeleteVital(ctx, "acc_intruder", p.ID, v.ID), common.ErrNotFound)

	_, err = s.CreateVital(ctx, "acc_intruder", p.ID, &CreateVitalInput{Type: "weight"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func addVitalOwned(t *testing.T, s *RecordsService, accountID, profileID string) *models.Vital {
	t.Helper()
	v, err := s.CreateVital(context.Background(), accountID, profileID, &CreateVitalInput{
		Type:       "heart_rate",
		Value:      json.RawMessage(`72`),
		Unit:       "bpm",
		RecordedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return v
}

func TestMedicationLifecycle(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()
	p := newProfile(t, s, "acc_1", "Jane Doe")

	med, err := s.CreateMedication(ctx, "acc_1", p.ID, &MedicationInput{
		Name:      "Metformin",
		Dose:      500,
		DoseUnit:  "mg",
		Frequency: "twice daily",
		Status:    "active",
	})
	require.NoError(t, err)

	updated, err := s.UpdateMedication(ctx, "acc_1", p.ID, med.ID, &MedicationInput{
		Name:      "Metformin",
		Dose:      850,
		DoseUnit:  "mg",
		Frequency: "twice daily",
		Status:    "active",
	})
	require.NoError(t, err)
	assert.Equal(t, 850.0, updated.Dose)

	active, err := s.ListMedications(ctx, "acc_1", p.ID, "active")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	stopped, err := s.ListMedications(ctx, "acc_1", p.ID, "stopped")
	require.NoError(t, err)
	assert.Empty(t, stopped)

	require.NoError(t, s.DeleteMedication(ctx, "acc_1", p.ID, med.ID))
	_, err = s.GetMedication(ctx, "acc_1", p.ID, med.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAppointmentLifecycle(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()
	p := newProfile(t, s, "acc_1", "Jane Doe")

	apt, err := s.CreateAppointment(ctx, "acc_1", p.ID, &AppointmentInput{
		Title:   "Annual checkup",
		StartAt: time.Date(2026, 10, 5, 9, 30, 0, 0, time.UTC),
		Status:  "scheduled",
	})
	require.NoError(t, err)

	updated, err := s.UpdateAppointment(ctx, "acc_1", p.ID, apt.ID, &AppointmentInput{
		Title:   "Annual checkup",
		StartAt: apt.StartAt,
		Status:  "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)

	scheduled, err := s.ListAppointments(ctx, "acc_1", p.ID, "scheduled")
	require.NoError(t, err)
	assert.Empty(t, scheduled)

	all, err := s.ListAppointments(ctx, "acc_1", p.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReportLifecycle(t *testing.T) {
	s := NewRecordsService()
	ctx := context.Background()
	p := newProfile(t, s, "acc_1", "Jane Doe")

	rep, err := s.CreateReport(ctx, "acc_1", p.ID, &ReportInput{
		Title:      "Blood panel",
		ReportDate: "2026-08-20",
		Type:       "lab",
		FileKey:    "reports/blood-panel.pdf",
	})
	require.NoError(t, err)

	labs, err := s.ListReports(ctx, "acc_1", p.ID, "lab")
	require.NoError(t, err)
	assert.Len(t, labs, 1)

	imaging, err := s.ListReports(ctx, "acc_1", p.ID, "imaging")
	require.NoError(t, err)
	assert.Empty(t, imaging)

	got, err := s.GetReport(ctx, "acc_1", p.ID, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blood panel", got.Title)

	require.NoError(t, s.DeleteReport(ctx, "acc_1", p.ID, rep.ID))
	_, err = s.GetReport(ctx, "acc_1", p.ID, rep.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
