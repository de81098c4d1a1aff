package tests

import (
	"testing"

	"casework_platform/casework/schema"
	"casework_platform/casework/services"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	api chi.Router
	db  *gorm.DB
}

const (
	adminUsername = "admin123"
	adminEmail    = "admin123@mail.com"
	adminPassword = "admin_password123"
)

func setupTestEnv(t *testing.T) testEnv {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(schema.AllTables()...)
	if err != nil {
		t.Fatal(err)
	}

	platform := services.NewCaseworkPlatform(db)

	platform.InitAdmin(adminUsername, adminEmail, adminPassword)

	return testEnv{api: platform.Routes(), db: db}
}

func (t *testEnv) newClient() client {
	return client{api: t.api}
}

func (t *testEnv) adminClient() (client, error) {
	c := t.newClient()
	err := c.login(adminUsername, adminPassword)
	return c, err
}

func (t *testEnv) newUser(username, role string) (client, error) {
	c := t.newClient()

	_, err := c.createUser(newUserRequest{
		Username:  username,
		Email:     username + "@mail.com",
		Password:  username + "_password",
		Role:      role,
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		return client{}, err
	}

	err = c.login(username, username+"_password")
	if err != nil {
		return client{}, err
	}

	return c, nil
}
