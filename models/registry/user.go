package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/APTrust/pharos/constants"
)

// User belongs to exactly one institution and has exactly one role.
type User struct {
	ID                    int64     `json:"id" gorm:"primaryKey"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email" gorm:"uniqueIndex;not null"`
	InstitutionID         int64     `json:"institution_id" gorm:"index;not null"`
	Role                  string    `json:"role" gorm:"not null"`
	Enabled               bool      `json:"enabled"`
	EncryptedAPISecretKey string    `json:"-" gorm:"column:encrypted_api_secret_key"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin returns true for APTrust admins, who can see and do
// almost anything.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == constants.RoleAdmin
}

// IsInstAdmin returns true if the user is an institutional admin.
func (u *User) IsInstAdmin() bool {
	return u != nil && u.Role == constants.RoleInstAdmin
}

// IsInstUser returns true if the user is a plain institutional user.
func (u *User) IsInstUser() bool {
	return u != nil && u.Role == constants.RoleInstUser
}

// HasRole returns true if the user has one of the three known roles.
func (u *User) HasRole() bool {
	return u.IsAdmin() || u.IsInstAdmin() || u.IsInstUser()
}

// SetAPIKey stores the digest of key. The key itself is never stored.
func (u *User) SetAPIKey(key string) {
	u.EncryptedAPISecretKey = DigestAPIKey(key)
}

// APIKeyMatches returns true if key digests to the stored value.
func (u *User) APIKeyMatches(key string) bool {
	return key != "" && u.EncryptedAPISecretKey != "" && u.EncryptedAPISecretKey == DigestAPIKey(key)
}

// DigestAPIKey returns the hex sha256 digest of key.
func DigestAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Role is a named permission bucket. The roles table exists so the
// UI can list roles. Users carry their role name directly.
type Role struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Role) TableName() string {
	return "roles"
}
