// Package seed loads demo fixtures into an empty store. Fixtures are yaml so
// deployments can ship their own demo roster without recompiling.
package seed

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"casework_platform/casework/auth"
	"casework_platform/casework/schema"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type UserFixture struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
}

type LeadFixture struct {
	// Ref names the lead so claim fixtures can point at it.
	Ref string `yaml:"ref"`

	PatientName      string `yaml:"patientName"`
	Age              *int   `yaml:"age"`
	ContactInfo      string `yaml:"contactInfo"`
	Address          string `yaml:"address"`
	IssueDescription string `yaml:"issueDescription"`
	Priority         string `yaml:"priority"`
	Source           string `yaml:"source"`
	Location         string `yaml:"location"`

	Status      string `yaml:"status"`
	IsPublished bool   `yaml:"isPublished"`

	SubmittedBy string `yaml:"submittedBy"`
	ClaimedBy   string `yaml:"claimedBy"`
}

type ClaimFixture struct {
	User string `yaml:"user"`
	Lead string `yaml:"lead"`

	Status          string     `yaml:"status"`
	AppointmentDate *time.Time `yaml:"appointmentDate"`
	Notes           *string    `yaml:"notes"`
}

type Fixture struct {
	Users        []UserFixture  `yaml:"users"`
	CaseLeads    []LeadFixture  `yaml:"caseLeads"`
	ClaimedCases []ClaimFixture `yaml:"claimedCases"`
}

func Load(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("error reading seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("error parsing seed file: %w", err)
	}

	for _, user := range fixture.Users {
		if err := schema.CheckValidRole(user.Role); err != nil {
			return Fixture{}, fmt.Errorf("seed user '%v': %w", user.Username, err)
		}
	}
	for _, lead := range fixture.CaseLeads {
		if err := schema.CheckValidPriority(lead.Priority); err != nil {
			return Fixture{}, fmt.Errorf("seed lead '%v': %w", lead.PatientName, err)
		}
		if err := schema.CheckValidSource(lead.Source); err != nil {
			return Fixture{}, fmt.Errorf("seed lead '%v': %w", lead.PatientName, err)
		}
		if lead.Status != "" {
			if err := schema.CheckValidLeadStatus(lead.Status); err != nil {
				return Fixture{}, fmt.Errorf("seed lead '%v': %w", lead.PatientName, err)
			}
		}
	}
	for _, claim := range fixture.ClaimedCases {
		if err := schema.CheckValidClaimStatus(claim.Status); err != nil {
			return Fixture{}, fmt.Errorf("seed claim for lead '%v': %w", claim.Lead, err)
		}
	}

	return fixture, nil
}

// Apply inserts the fixture in one transaction. It is a no-op when users already
// exist so restarting the server does not duplicate demo data.
func Apply(db *gorm.DB, fixture Fixture) error {
	var userCount int64
	result := db.Model(&schema.User{}).Count(&userCount)
	if result.Error != nil {
		return schema.NewDbError("counting users before seeding", result.Error)
	}
	if userCount > 0 {
		slog.Info("skipping seed, store already has users", "users", userCount)
		return nil
	}

	return db.Transaction(func(txn *gorm.DB) error {
		userIds := make(map[string]uint, len(fixture.Users))
		for _, uf := range fixture.Users {
			hashedPwd, err := auth.HashPassword(uf.Password)
			if err != nil {
				return err
			}

			user := schema.User{
				Username:   uf.Username,
				Email:      uf.Email,
				Password:   hashedPwd,
				Role:       uf.Role,
				FirstName:  uf.FirstName,
				LastName:   uf.LastName,
				IsActive:   true,
				LastActive: time.Now().UTC(),
			}
			if result := txn.Create(&user); result.Error != nil {
				return schema.NewDbError("seeding user", result.Error)
			}
			userIds[uf.Username] = user.Id
		}

		lookupUser := func(username string) (*uint, error) {
			if username == "" {
				return nil, nil
			}
			id, ok := userIds[username]
			if !ok {
				return nil, fmt.Errorf("seed references unknown user '%v'", username)
			}
			return &id, nil
		}

		leadIds := make(map[string]uint, len(fixture.CaseLeads))
		for _, lf := range fixture.CaseLeads {
			submittedBy, err := lookupUser(lf.SubmittedBy)
			if err != nil {
				return err
			}
			claimedBy, err := lookupUser(lf.ClaimedBy)
			if err != nil {
				return err
			}

			status := lf.Status
			if status == "" {
				status = schema.LeadAvailable
			}

			lead := schema.CaseLead{
				PatientName:      lf.PatientName,
				Age:              lf.Age,
				ContactInfo:      lf.ContactInfo,
				Address:          lf.Address,
				IssueDescription: lf.IssueDescription,
				Priority:         lf.Priority,
				Source:           lf.Source,
				Location:         lf.Location,
				Status:           status,
				SubmittedBy:      submittedBy,
				ClaimedBy:        claimedBy,
				IsPublished:      lf.IsPublished,
			}
			if result := txn.Create(&lead); result.Error != nil {
				return schema.NewDbError("seeding case lead", result.Error)
			}
			if lf.Ref != "" {
				leadIds[lf.Ref] = lead.Id
			}
		}

		for _, cf := range fixture.ClaimedCases {
			userId, err := lookupUser(cf.User)
			if err != nil {
				return err
			}
			if userId == nil {
				return fmt.Errorf("seed claim for lead '%v' is missing a user", cf.Lead)
			}
			leadId, ok := leadIds[cf.Lead]
			if !ok {
				return fmt.Errorf("seed claim references unknown lead '%v'", cf.Lead)
			}

			claim := schema.ClaimedCase{
				UserId:          *userId,
				CaseLeadId:      leadId,
				Status:          cf.Status,
				AppointmentDate: cf.AppointmentDate,
				Notes:           cf.Notes,
			}
			if result := txn.Create(&claim); result.Error != nil {
				return schema.NewDbError("seeding claimed case", result.Error)
			}
		}

		slog.Info("seed applied",
			"users", len(fixture.Users),
			"case_leads", len(fixture.CaseLeads),
			"claimed_cases", len(fixture.ClaimedCases))

		return nil
	})
}
