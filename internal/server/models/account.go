// Package models holds the server-side domain types.
package models

import "time"

// NotificationPreferences toggles per-category push notifications.
type NotificationPreferences struct {
	Appointments bool `json:"appointments"`
	Medications  bool `json:"medications"`
	Reports      bool `json:"reports"`
	Security     bool `json:"security"`
}

// AccountSettings is an opaque settings blob attached to every account.
type AccountSettings struct {
	Language                string                  `json:"language"`
	Timezone                string                  `json:"timezone"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
}

// DefaultAccountSettings returns the settings a freshly registered account
// starts with.
func DefaultAccountSettings() AccountSettings {
	return AccountSettings{
		Language: "en",
		Timezone: "UTC",
		NotificationPreferences: NotificationPreferences{
			Appointments: true,
			Medications:  true,
			Reports:      true,
			Security:     true,
		},
	}
}

// Account is the identity record. The email is unique case-insensitively;
// the id never changes after creation.
type Account struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Settings  AccountSettings `json:"settings"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Credential stores the bcrypt hash of an account's password. It lives next
// to the account but is never serialized to clients.
type Credential struct {
	AccountID    string
	PasswordHash []byte
}

// RefreshToken is a registry row tracking one live refresh token. Expiry is
// embedded in the token itself; a row only asserts "not yet revoked".
type RefreshToken struct {
	Token     string
	AccountID string
	CreatedAt time.Time
}
