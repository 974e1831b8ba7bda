package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/server/models"
	"github.com/dmitrijs2005/healthlog/internal/server/records"
)

// RecordsService owns the per-key CRUD tables reachable through the
// authorization gate. Profiles are keyed by account; vitals, medications,
// appointments, and reports are keyed by profile. A caller asking for a
// profile or record it does not own gets common.ErrNotFound — ownership
// failures never confirm that the resource exists.
type RecordsService struct {
	profiles     *records.Store[*models.Profile]
	vitals       *records.Store[*models.Vital]
	medications  *records.Store[*models.Medication]
	appointments *records.Store[*models.Appointment]
	reports      *records.Store[*models.Report]
}

func NewRecordsService() *RecordsService {
	return &RecordsService{
		profiles:     records.NewStore[*models.Profile](),
		vitals:       records.NewStore[*models.Vital](),
		medications:  records.NewStore[*models.Medication](),
		appointments: records.NewStore[*models.Appointment](),
		reports:      records.NewStore[*models.Report](),
	}
}

// --- profiles ---

type CreateProfileInput struct {
	FullName          string                    `json:"fullName"`
	DateOfBirth       string                    `json:"dateOfBirth"`
	Gender            string                    `json:"gender"`
	RelationToAccount string                    `json:"relationToAccount"`
	BloodType         string                    `json:"bloodType"`
	HeightCm          float64                   `json:"heightCm"`
	WeightKg          float64                   `json:"weightKg"`
	EmergencyContacts []models.EmergencyContact `json:"emergencyContacts"`
}

type UpdateProfileInput struct {
	FullName          *string                    `json:"fullName"`
	DateOfBirth       *string                    `json:"dateOfBirth"`
	Gender            *string                    `json:"gender"`
	RelationToAccount *string                    `json:"relationToAccount"`
	BloodType         *string                    `json:"bloodType"`
	HeightCm          *float64                   `json:"heightCm"`
	WeightKg          *float64                   `json:"weightKg"`
	EmergencyContacts *[]models.EmergencyContact `json:"emergencyContacts"`
}

type ProfileSettingsInput struct {
	EmergencyAccessEnabled bool `json:"emergencyAccessEnabled"`
	DoctorSharingEnabled   bool `json:"doctorSharingEnabled"`
}

func (s *RecordsService) ListProfiles(ctx context.Context, accountID string) []*models.Profile {
	return s.profiles.List(accountID)
}

func (s *RecordsService) GetProfile(ctx context.Context, accountID, profileID string) (*models.Profile, error) {
	return s.profiles.Get(accountID, profileID)
}

func (s *RecordsService) CreateProfile(ctx context.Context, accountID string, in *CreateProfileInput) *models.Profile {
	profile := &models.Profile{
		ID:                common.NewID("prof"),
		AccountID:         accountID,
		FullName:          in.FullName,
		DateOfBirth:       in.DateOfBirth,
		Gender:            in.Gender,
		RelationToAccount: in.RelationToAccount,
		BloodType:         in.BloodType,
		HeightCm:          in.HeightCm,
		WeightKg:          in.WeightKg,
		Allergies:         []string{},
		ChronicConditions: []string{},
		EmergencyContacts: in.EmergencyContacts,
		LastUpdatedAt:     time.Now().UTC(),
	}
	if profile.EmergencyContacts == nil {
		profile.EmergencyContacts = []models.EmergencyContact{}
	}

	s.profiles.Insert(accountID, profile)
	return profile
}

func (s *RecordsService) UpdateProfile(ctx context.Context, accountID, profileID string, in *UpdateProfileInput) (*models.Profile, error) {
	existing, err := s.profiles.Get(accountID, profileID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if in.FullName != nil {
		updated.FullName = *in.FullName
	}
	if in.DateOfBirth != nil {
		updated.DateOfBirth = *in.DateOfBirth
	}
	if in.Gender != nil {
		updated.Gender = *in.Gender
	}
	if in.RelationToAccount != nil {
		updated.RelationToAccount = *in.RelationToAccount
	}
	if in.BloodType != nil {
		updated.BloodType = *in.BloodType
	}
	if in.HeightCm != nil {
		updated.HeightCm = *in.HeightCm
	}
	if in.WeightKg != nil {
		updated.WeightKg = *in.WeightKg
	}
	if in.EmergencyContacts != nil {
		updated.EmergencyContacts = *in.EmergencyContacts
	}
	updated.LastUpdatedAt = time.Now().UTC()

	if err := s.profiles.Replace(accountID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RecordsService) UpdateProfileSettings(ctx context.Context, accountID, profileID string, in *ProfileSettingsInput) (*models.Profile, error) {
	existing, err := s.profiles.Get(accountID, profileID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.EmergencyAccessEnabled = in.EmergencyAccessEnabled
	updated.DoctorSharingEnabled = in.DoctorSharingEnabled
	updated.LastUpdatedAt = time.Now().UTC()

	if err := s.profiles.Replace(accountID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RecordsService) DeleteProfile(ctx context.Context, accountID, profileID string) error {
	return s.profiles.Delete(accountID, profileID)
}

// ownedProfile is the gate every record operation passes through: the
// profile must exist under the calling account.
func (s *RecordsService) ownedProfile(accountID, profileID string) error {
	_, err := s.profiles.Get(accountID, profileID)
	return err
}

// --- vitals ---

type CreateVitalInput struct {
	Type       string          `json:"type"`
	Value      json.RawMessage `json:"value"`
	Unit       string          `json:"unit"`
	RecordedAt time.Time       `json:"recordedAt"`
	Notes      string          `json:"notes"`
}

type VitalsListParams struct {
	Type  string
	From  time.Time
	To    time.Time
	Page  int
	Limit int
}

type VitalsPage struct {
	Items []*models.Vital  `json:"items"`
	Meta  records.ListMeta `json:"meta"`
}

func (s *RecordsService) CreateVital(ctx context.Context, accountID, profileID string, in *CreateVitalInput) (*models.Vital, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	vital := &models.Vital{
		ID:         common.NewID("vit"),
		ProfileID:  profileID,
		Type:       in.Type,
		Value:      in.Value,
		Unit:       in.Unit,
		RecordedAt: in.RecordedAt,
		CreatedAt:  time.Now().UTC(),
		Notes:      in.Notes,
	}

	s.vitals.Insert(profileID, vital)
	return vital, nil
}

func (s *RecordsService) ListVitals(ctx context.Context, accountID, profileID string, params *VitalsListParams) (*VitalsPage, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	vitals := s.vitals.List(profileID)

	filtered := vitals[:0:0]
	for _, v := range vitals {
		if params.Type != "" && v.Type != params.Type {
			continue
		}
		if !params.From.IsZero() && v.RecordedAt.Before(params.From) {
			continue
		}
		if !params.To.IsZero() && v.RecordedAt.After(params.To) {
			continue
		}
		filtered = append(filtered, v)
	}

	// Newest first.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RecordedAt.After(filtered[j].RecordedAt)
	})

	items, meta := records.Paginate(filtered, params.Page, params.Limit)
	return &VitalsPage{Items: items, Meta: meta}, nil
}

func (s *RecordsService) GetVital(ctx context.Context, accountID, profileID, vitalID string) (*models.Vital, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}
	return s.vitals.Get(profileID, vitalID)
}

func (s *RecordsService) DeleteVital(ctx context.Context, accountID, profileID, vitalID string) error {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return err
	}
	return s.vitals.Delete(profileID, vitalID)
}

// --- medications ---

type MedicationInput struct {
	Name      string  `json:"name"`
	Dose      float64 `json:"dose"`
	DoseUnit  string  `json:"doseUnit"`
	Frequency string  `json:"frequency"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Status    string  `json:"status"`
	Notes     string  `json:"notes"`
}

func (s *RecordsService) CreateMedication(ctx context.Context, accountID, profileID string, in *MedicationInput) (*models.Medication, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	med := &models.Medication{
		ID:        common.NewID("med"),
		ProfileID: profileID,
		Name:      in.Name,
		Dose:      in.Dose,
		DoseUnit:  in.DoseUnit,
		Frequency: in.Frequency,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.medications.Insert(profileID, med)
	return med, nil
}

func (s *RecordsService) ListMedications(ctx context.Context, accountID, profileID, status string) ([]*models.Medication, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	meds := s.medications.List(profileID)
	if status == "" {
		return meds, nil
	}

	filtered := meds[:0:0]
	for _, m := range meds {
		if m.Status == status {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (s *RecordsService) GetMedication(ctx context.Context, accountID, profileID, medicationID string) (*models.Medication, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}
	return s.medications.Get(profileID, medicationID)
}

func (s *RecordsService) UpdateMedication(ctx context.Context, accountID, profileID, medicationID string, in *MedicationInput) (*models.Medication, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	existing, err := s.medications.Get(profileID, medicationID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = in.Name
	updated.Dose = in.Dose
	updated.DoseUnit = in.DoseUnit
	updated.Frequency = in.Frequency
	updated.StartDate = in.StartDate
	updated.EndDate = in.EndDate
	updated.Status = in.Status
	updated.Notes = in.Notes
	updated.UpdatedAt = time.Now().UTC()

	if err := s.medications.Replace(profileID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RecordsService) DeleteMedication(ctx context.Context, accountID, profileID, medicationID string) error {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return err
	}
	return s.medications.Delete(profileID, medicationID)
}

// --- appointments ---

type AppointmentInput struct {
	Title      string    `json:"title"`
	Specialty  string    `json:"specialty"`
	DoctorName string    `json:"doctorName"`
	Facility   string    `json:"facility"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
}

func (s *RecordsService) CreateAppointment(ctx context.Context, accountID, profileID string, in *AppointmentInput) (*models.Appointment, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	apt := &models.Appointment{
		ID:         common.NewID("apt"),
		ProfileID:  profileID,
		Title:      in.Title,
		Specialty:  in.Specialty,
		DoctorName: in.DoctorName,
		Facility:   in.Facility,
		StartAt:    in.StartAt,
		EndAt:      in.EndAt,
		Status:     in.Status,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.appointments.Insert(profileID, apt)
	return apt, nil
}

func (s *RecordsService) ListAppointments(ctx context.Context, accountID, profileID, status string) ([]*models.Appointment, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	apts := s.appointments.List(profileID)
	if status == "" {
		return apts, nil
	}

	filtered := apts[:0:0]
	for _, a := range apts {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *RecordsService) GetAppointment(ctx context.Context, accountID, profileID, appointmentID string) (*models.Appointment, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}
	return s.appointments.Get(profileID, appointmentID)
}

func (s *RecordsService) UpdateAppointment(ctx context.Context, accountID, profileID, appointmentID string, in *AppointmentInput) (*models.Appointment, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	existing, err := s.appointments.Get(profileID, appointmentID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = in.Title
	updated.Specialty = in.Specialty
	updated.DoctorName = in.DoctorName
	updated.Facility = in.Facility
	updated.StartAt = in.StartAt
	updated.EndAt = in.EndAt
	updated.Status = in.Status
	updated.Notes = in.Notes
	updated.UpdatedAt = time.Now().UTC()

	if err := s.appointments.Replace(profileID, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RecordsService) DeleteAppointment(ctx context.Context, accountID, profileID, appointmentID string) error {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return err
	}
	return s.appointments.Delete(profileID, appointmentID)
}

// --- reports ---

type ReportInput struct {
	Title      string   `json:"title"`
	ReportDate string   `json:"reportDate"`
	Type       string   `json:"type"`
	DoctorName string   `json:"doctorName"`
	Facility   string   `json:"facility"`
	Tags       []string `json:"tags"`
	FileKey    string   `json:"fileKey"`
}

func (s *RecordsService) CreateReport(ctx context.Context, accountID, profileID string, in *ReportInput) (*models.Report, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &models.Report{
		ID:         common.NewID("rep"),
		ProfileID:  profileID,
		Title:      in.Title,
		ReportDate: in.ReportDate,
		Type:       in.Type,
		DoctorName: in.DoctorName,
		Facility:   in.Facility,
		Tags:       in.Tags,
		FileKey:    in.FileKey,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.reports.Insert(profileID, report)
	return report, nil
}

func (s *RecordsService) ListReports(ctx context.Context, accountID, profileID, reportType string) ([]*models.Report, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}

	reports := s.reports.List(profileID)
	if reportType == "" {
		return reports, nil
	}

	filtered := reports[:0:0]
	for _, r := range reports {
		if r.Type == reportType {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *RecordsService) GetReport(ctx context.Context, accountID, profileID, reportID string) (*models.Report, error) {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return nil, err
	}
	return s.reports.Get(profileID, reportID)
}

func (s *RecordsService) DeleteReport(ctx context.Context, accountID, profileID, reportID string) error {
	if err := s.ownedProfile(accountID, profileID); err != nil {
		return err
	}
	return s.reports.Delete(profileID, reportID)
}
