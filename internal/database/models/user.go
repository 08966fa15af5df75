package models

// User is the identity anchor every ownership and membership points at
type User struct {
	BaseModel
	FirstName    string `json:"first_name" gorm:"size:30"`
	LastName     string `json:"last_name" gorm:"size:30"`
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:20"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	IsActive     bool   `json:"is_active" gorm:"not null"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns "first last", falling back to the username
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
