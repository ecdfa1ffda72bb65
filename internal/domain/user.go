package domain

import "time"

type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	IsStaff      bool      `json:"isStaff" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Identity is what the session layer knows about the caller.
type Identity struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}
