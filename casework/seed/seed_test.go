package seed

import (
	"testing"

	"casework_platform/casework/schema"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const demoFixture = `
users:
  - username: admin
    email: admin@dentalcare.com
    password: admin_password
    role: admin
    firstName: Maria
    lastName: Santos
  - username: student1
    email: juan@email.com
    password: student_password
    role: student
    firstName: Juan
    lastName: Dela Cruz

caseLeads:
  - patientName: Ana Reyes
    age: 34
    contactInfo: "09123456789"
    address: 123 Main St, Quezon City
    issueDescription: Severe toothache.
    priority: urgent
    source: facebook
    location: Quezon City
    isPublished: true
  - ref: done-case
    patientName: Pedro Garcia
    contactInfo: "09111222333"
    address: 321 Elm St, Mandaluyong
    issueDescription: Cleaning completed.
    priority: routine
    source: barangay
    location: Mandaluyong
    status: completed
    claimedBy: student1
    isPublished: true

claimedCases:
  - user: student1
    lead: done-case
    status: done
    notes: Demo completed case.
`

func setupDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(schema.AllTables()...); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestParseRejectsInvalidEnums(t *testing.T) {
	_, err := Parse([]byte(`
users:
  - username: admin
    role: superuser
`))
	if err == nil {
		t.Fatal("invalid role should be rejected")
	}

	_, err = Parse([]byte(`
caseLeads:
  - patientName: Ana Reyes
    priority: critical
    source: facebook
`))
	if err == nil {
		t.Fatal("invalid priority should be rejected")
	}
}

func TestApply(t *testing.T) {
	db := setupDb(t)

	fixture, err := Parse([]byte(demoFixture))
	if err != nil {
		t.Fatal(err)
	}

	if err := Apply(db, fixture); err != nil {
		t.Fatal(err)
	}

	var users []schema.User
	if result := db.Find(&users); result.Error != nil {
		t.Fatal(result.Error)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(users))
	}

	admin, err := schema.GetUserByUsername("admin", db)
	if err != nil {
		t.Fatal(err)
	}
	if admin == nil || admin.Role != schema.AdminRole || !admin.IsActive {
		t.Fatalf("invalid seeded admin %+v", admin)
	}
	if err := bcrypt.CompareHashAndPassword(admin.Password, []byte("admin_password")); err != nil {
		t.Fatal("seeded password should be bcrypt hashed and match the fixture")
	}

	var leads []schema.CaseLead
	if result := db.Find(&leads); result.Error != nil {
		t.Fatal(result.Error)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 seeded leads, got %d", len(leads))
	}

	var done schema.CaseLead
	if result := db.First(&done, "status = ?", schema.LeadCompleted); result.Error != nil {
		t.Fatal(result.Error)
	}
	student, err := schema.GetUserByUsername("student1", db)
	if err != nil {
		t.Fatal(err)
	}
	if done.ClaimedBy == nil || *done.ClaimedBy != student.Id {
		t.Fatalf("completed lead should reference the seeded student, got %+v", done.ClaimedBy)
	}

	var claims []schema.ClaimedCase
	if result := db.Find(&claims); result.Error != nil {
		t.Fatal(result.Error)
	}
	if len(claims) != 1 || claims[0].Status != schema.ClaimDone || claims[0].CaseLeadId != done.Id {
		t.Fatalf("invalid seeded claim %+v", claims)
	}
}

func TestApplySkipsNonEmptyStore(t *testing.T) {
	db := setupDb(t)

	fixture, err := Parse([]byte(demoFixture))
	if err != nil {
		t.Fatal(err)
	}

	if err := Apply(db, fixture); err != nil {
		t.Fatal(err)
	}
	if err := Apply(db, fixture); err != nil {
		t.Fatal(err)
	}

	var userCount int64
	if result := db.Model(&schema.User{}).Count(&userCount); result.Error != nil {
		t.Fatal(result.Error)
	}
	if userCount != 2 {
		t.Fatalf("re-applying the seed should be a no-op, got %d users", userCount)
	}
}

func TestApplyRejectsDanglingRefs(t *testing.T) {
	db := setupDb(t)

	fixture, err := Parse([]byte(`
caseLeads:
  - patientName: Ana Reyes
    contactInfo: "09123456789"
    address: 123 Main St
    issueDescription: Toothache.
    priority: urgent
    source: facebook
    location: Quezon City
    submittedBy: ghost
`))
	if err != nil {
		t.Fatal(err)
	}

	if err := Apply(db, fixture); err == nil {
		t.Fatal("seed referencing an unknown user should fail")
	}
}
