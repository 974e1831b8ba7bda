package models

import (
	"encoding/json"
	"time"
)

// EntityID implementations let the generic record store index these types.
func (p *Profile) EntityID() string     { return p.ID }
func (v *Vital) EntityID() string       { return v.ID }
func (m *Medication) EntityID() string  { return m.ID }
func (a *Appointment) EntityID() string { return a.ID }
func (r *Report) EntityID() string      { return r.ID }

// EmergencyContact is a person to reach when emergency access is used.
type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// Profile is a person whose health records are tracked under an account.
// One account owns any number of profiles (self, family members, ...).
type Profile struct {
	ID                     string             `json:"id"`
	AccountID              string             `json:"accountId"`
	FullName               string             `json:"fullName"`
	DateOfBirth            string             `json:"dateOfBirth"`
	Gender                 string             `json:"gender"`
	RelationToAccount      string             `json:"relationToAccount"`
	BloodType              string             `json:"bloodType,omitempty"`
	HeightCm               float64            `json:"heightCm,omitempty"`
	WeightKg               float64            `json:"weightKg,omitempty"`
	Allergies              []string           `json:"allergies"`
	ChronicConditions      []string           `json:"chronicConditions"`
	EmergencyContacts      []EmergencyContact `json:"emergencyContacts"`
	EmergencyAccessEnabled bool               `json:"emergencyAccessEnabled"`
	DoctorSharingEnabled   bool               `json:"doctorSharingEnabled"`
	PhotoURL               string             `json:"photoUrl,omitempty"`
	LastUpdatedAt          time.Time          `json:"lastUpdatedAt"`
}

// Vital is a single measurement. Value is either a number or a structured
// reading such as {"systolic":120,"diastolic":80}, kept as raw JSON.
type Vital struct {
	ID         string          `json:"id"`
	ProfileID  string          `json:"profileId"`
	Type       string          `json:"type"`
	Value      json.RawMessage `json:"value"`
	Unit       string          `json:"unit"`
	RecordedAt time.Time       `json:"recordedAt"`
	CreatedAt  time.Time       `json:"createdAt"`
	Notes      string          `json:"notes,omitempty"`
}

// Medication is a prescribed or self-reported medication entry.
type Medication struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	Name      string    `json:"name"`
	Dose      float64   `json:"dose,omitempty"`
	DoseUnit  string    `json:"doseUnit,omitempty"`
	Frequency string    `json:"frequency"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profileId"`
	Title      string    `json:"title"`
	Specialty  string    `json:"specialty,omitempty"`
	DoctorName string    `json:"doctorName,omitempty"`
	Facility   string    `json:"facility,omitempty"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Report is a document-style medical record. File contents live in external
// storage; only the reference is kept here.
type Report struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profileId"`
	Title      string    `json:"title"`
	ReportDate string    `json:"reportDate"`
	Type       string    `json:"type"`
	DoctorName string    `json:"doctorName,omitempty"`
	Facility   string    `json:"facility,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	FileKey    string    `json:"fileKey"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
