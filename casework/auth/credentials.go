package auth

import (
	"fmt"

	"casework_platform/casework/schema"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

func HashPassword(password string) ([]byte, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("error encrypting password: %w", err)
	}
	return hashed, nil
}

// CheckCredentials verifies a username/password pair against the users table.
// Inactive accounts are rejected the same as bad passwords so that the response
// does not reveal which accounts exist.
func CheckCredentials(username, password string, db *gorm.DB) (schema.User, error) {
	var user schema.User
	result := db.Find(&user, "username = ?", username)
	if result.Error != nil {
		return schema.User{}, schema.NewDbError("locating user for username", result.Error)
	}

	if result.RowsAffected != 1 || !user.IsActive {
		return schema.User{}, ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(user.Password, []byte(password))
	if err != nil {
		return schema.User{}, ErrInvalidCredentials
	}

	return user, nil
}
