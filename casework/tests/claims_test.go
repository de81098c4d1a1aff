package tests

import (
	"testing"
	"time"

	"casework_platform/casework/schema"
)

func TestClaimFlow(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}
	student, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}

	leadId := publishedLead(t, &bgy, &admin, "Ana Reyes")

	claim, err := student.claimCase(leadId)
	if err != nil {
		t.Fatal(err)
	}
	if claim.Status != "contacted" {
		t.Fatalf("new claim should start as contacted, got %v", claim.Status)
	}
	if claim.AppointmentDate != nil || claim.Notes != nil {
		t.Fatalf("new claim should have no appointment or notes: %+v", claim)
	}

	lead, err := student.getLead(leadId)
	if err != nil {
		t.Fatal(err)
	}
	if lead.Status != "claimed" {
		t.Fatalf("claimed lead should have status claimed, got %v", lead.Status)
	}
	if lead.ClaimedBy == nil || *lead.ClaimedBy != student.userId {
		t.Fatalf("claimed lead should record the claimant, got %+v", lead.ClaimedBy)
	}

	claims, err := student.listClaimedCases()
	if err != nil {
		t.Fatal(err)
	}
	if len(claims) != 1 || claims[0].CaseLead.Id != leadId || claims[0].Status != "contacted" {
		t.Fatalf("claimed case list mismatch: %+v", claims)
	}
}

func TestDoubleClaimRejected(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}
	first, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.newUser("stud2", "student")
	if err != nil {
		t.Fatal(err)
	}

	leadId := publishedLead(t, &bgy, &admin, "Ana Reyes")

	if _, err := first.claimCase(leadId); err != nil {
		t.Fatal(err)
	}

	if _, err := second.claimCase(leadId); err != ErrConflict {
		t.Fatal("second claim on the same lead should be rejected")
	}

	var count int64
	result := env.db.Model(&schema.ClaimedCase{}).Where("case_lead_id = ?", leadId).Count(&count)
	if result.Error != nil {
		t.Fatal(result.Error)
	}
	if count != 1 {
		t.Fatalf("exactly one claim row should exist for the lead, got %d", count)
	}

	lead, err := first.getLead(leadId)
	if err != nil {
		t.Fatal(err)
	}
	if lead.ClaimedBy == nil || *lead.ClaimedBy != first.userId {
		t.Fatal("lead should remain with the first claimant")
	}
}

func TestUnpublishedLeadNotClaimable(t *testing.T) {
	env := setupTestEnv(t)

	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}
	student, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}

	lead, err := bgy.submitLead(sampleLead("Ana Reyes"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := student.claimCase(lead.Id); err != ErrConflict {
		t.Fatal("unpublished lead should not be claimable")
	}

	if _, err := student.claimCase(9999); err != ErrBadRequest {
		t.Fatal("claiming a missing lead should be rejected")
	}
}

func TestClaimScheduling(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}
	student, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}

	leadId := publishedLead(t, &bgy, &admin, "Ana Reyes")

	claim, err := student.claimCase(leadId)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := student.updateClaim(claim.Id, claimUpdate{Status: strPtr("scheduled")}); err != ErrBadRequest {
		t.Fatal("scheduling without an appointment date should be rejected")
	}

	appointment := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	updated, err := student.updateClaim(claim.Id, claimUpdate{
		Status:          strPtr("scheduled"),
		AppointmentDate: &appointment,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != "scheduled" {
		t.Fatalf("claim should be scheduled, got %v", updated.Status)
	}
	if updated.AppointmentDate == nil || !updated.AppointmentDate.Equal(appointment) {
		t.Fatalf("appointment date did not round-trip: %+v", updated.AppointmentDate)
	}

	claims, err := student.listClaimedCases()
	if err != nil {
		t.Fatal(err)
	}
	if len(claims) != 1 || claims[0].Status != "scheduled" {
		t.Fatalf("claim list should reflect scheduling: %+v", claims)
	}
	if claims[0].AppointmentDate == nil || !claims[0].AppointmentDate.Equal(appointment) {
		t.Fatalf("stored appointment date mismatch: %+v", claims[0].AppointmentDate)
	}
}

func TestClaimDoneCompletesLead(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}
	student, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}

	leadId := publishedLead(t, &bgy, &admin, "Pedro Garcia")

	claim, err := student.claimCase(leadId)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := student.updateClaim(claim.Id, claimUpdate{Status: strPtr("done")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != "done" {
		t.Fatalf("claim should be done, got %v", updated.Status)
	}

	lead, err := student.getLead(leadId)
	if err != nil {
		t.Fatal(err)
	}
	if lead.Status != "completed" {
		t.Fatalf("parent lead should be completed once the claim is done, got %v", lead.Status)
	}

	// Notes remain editable after the claim is terminal.
	withNotes, err := student.updateClaim(claim.Id, claimUpdate{Notes: strPtr("Treatment finished, patient satisfied.")})
	if err != nil {
		t.Fatal(err)
	}
	if withNotes.Notes == nil || *withNotes.Notes != "Treatment finished, patient satisfied." {
		t.Fatalf("notes update not applied: %+v", withNotes.Notes)
	}
	if withNotes.Status != "done" {
		t.Fatal("notes update should not change the claim status")
	}
}

func TestUpdateMissingClaim(t *testing.T) {
	env := setupTestEnv(t)

	student, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := student.updateClaim(9999, claimUpdate{Notes: strPtr("hello")}); err != ErrBadRequest {
		t.Fatal("updating a missing claim should be rejected")
	}
}
