package models

import "time"

// Profile is the non-authentication account data, keyed by the same id as its
// credential record and created in the same transaction. A credential without
// a profile must never be observable.
type Profile struct {
	AccountID   string
	DisplayName string
	Bio         string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
