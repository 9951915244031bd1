// Package user provides the operator account entity.
package user

// User is an operator account. Password holds a bcrypt hash.
type User struct {
	ID       string `gorm:"primarykey;size:36" json:"id"`
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
}

// TableName returns the table name for User model.
func (User) TableName() string {
	return "users"
}
