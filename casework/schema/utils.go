package schema

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type DbError struct {
	action string
	err    error
}

func NewDbError(action string, err error) error {
	slog.Error("sql error", "action", action, "error", err)
	return DbError{action: action, err: err}
}

func (e DbError) Error() string {
	return fmt.Sprintf("sql error while %v: %v", e.action, e.err)
}

func (e DbError) Unwrap() error {
	return e.err
}

type NotFoundError struct {
	entity string
	id     uint
}

func NewNotFoundError(entity string, id uint) error {
	return NotFoundError{entity: entity, id: id}
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no %v with id %v", e.entity, e.id)
}

func IsNotFound(err error) bool {
	var notFound NotFoundError
	return errors.As(err, &notFound)
}

func GetUser(userId uint, db *gorm.DB) (User, error) {
	var user User

	result := db.First(&user, "id = ?", userId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user, NewNotFoundError("user", userId)
		}
		return user, NewDbError("retrieving user by id", result.Error)
	}

	return user, nil
}

func GetUserByUsername(username string, db *gorm.DB) (*User, error) {
	var user User

	result := db.First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewDbError("retrieving user by username", result.Error)
	}

	return &user, nil
}

func GetCaseLead(leadId uint, db *gorm.DB) (CaseLead, error) {
	var lead CaseLead

	result := db.First(&lead, "id = ?", leadId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return lead, NewNotFoundError("case lead", leadId)
		}
		return lead, NewDbError("retrieving case lead by id", result.Error)
	}

	return lead, nil
}

func GetClaimedCase(claimId uint, db *gorm.DB) (ClaimedCase, error) {
	var claim ClaimedCase

	result := db.First(&claim, "id = ?", claimId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return claim, NewNotFoundError("claimed case", claimId)
		}
		return claim, NewDbError("retrieving claimed case by id", result.Error)
	}

	return claim, nil
}

func CaseLeadExists(db *gorm.DB, leadId uint) (bool, error) {
	var lead CaseLead
	result := db.First(&lead, "id = ?", leadId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewDbError("checking if case lead exists", result.Error)
	}
	return true, nil
}

func UserExists(db *gorm.DB, userId uint) (bool, error) {
	var user User
	result := db.First(&user, "id = ?", userId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewDbError("checking if user exists", result.Error)
	}
	return true, nil
}
