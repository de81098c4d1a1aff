package tests

import (
	"testing"
)

func TestSubmitLeadForcesDefaults(t *testing.T) {
	env := setupTestEnv(t)

	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}

	// The payload tries to smuggle in a published, claimed lead.
	lead, err := bgy.submitLeadRaw(map[string]interface{}{
		"patientName":      "Ana Reyes",
		"age":              34,
		"contactInfo":      "09123456789",
		"address":          "123 Main St, Quezon City",
		"issueDescription": "Severe toothache.",
		"priority":         "urgent",
		"source":           "facebook",
		"location":         "Quezon City",
		"status":           "claimed",
		"claimedBy":        bgy.userId,
		"isPublished":      true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if lead.IsPublished {
		t.Fatal("created lead must be unpublished")
	}
	if lead.Status != "available" {
		t.Fatalf("created lead must be available, got %v", lead.Status)
	}
	if lead.ClaimedBy != nil {
		t.Fatal("created lead must not have a claimant")
	}
}

func TestLeadPublicationGate(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}

	lead, err := bgy.submitLead(sampleLead("Ana Reyes"))
	if err != nil {
		t.Fatal(err)
	}

	unpublished, err := admin.listUnpublishedLeads()
	if err != nil {
		t.Fatal(err)
	}
	if len(unpublished) != 1 || unpublished[0].Id != lead.Id {
		t.Fatalf("submitted lead should be in the unpublished list, got %+v", unpublished)
	}

	published, err := bgy.listPublishedLeads()
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 0 {
		t.Fatal("submitted lead should not appear in the published list")
	}

	if _, err := admin.publishLead(lead.Id); err != nil {
		t.Fatal(err)
	}

	published, err = bgy.listPublishedLeads()
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 1 || published[0].Id != lead.Id || !published[0].IsPublished {
		t.Fatalf("published lead should appear in the published list, got %+v", published)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}

	lead, err := bgy.submitLead(sampleLead("Ana Reyes"))
	if err != nil {
		t.Fatal(err)
	}

	first, err := admin.publishLead(lead.Id)
	if err != nil {
		t.Fatal(err)
	}
	second, err := admin.publishLead(lead.Id)
	if err != nil {
		t.Fatal(err)
	}
	if !first.IsPublished || !second.IsPublished {
		t.Fatal("lead should remain published")
	}

	if _, err := admin.publishLead(9999); err != ErrNotFound {
		t.Fatal("publishing a missing lead should return not found")
	}
}

func TestLeadValidation(t *testing.T) {
	env := setupTestEnv(t)

	c := env.newClient()

	bad := sampleLead("Ana Reyes")
	bad.Priority = "critical"
	if _, err := c.submitLead(bad); err != ErrBadRequest {
		t.Fatal("invalid priority should be rejected")
	}

	bad = sampleLead("Ana Reyes")
	bad.Source = "tiktok"
	if _, err := c.submitLead(bad); err != ErrBadRequest {
		t.Fatal("invalid source should be rejected")
	}

	bad = sampleLead("")
	if _, err := c.submitLead(bad); err != ErrBadRequest {
		t.Fatal("missing patient name should be rejected")
	}
}

func TestUpdateLead(t *testing.T) {
	env := setupTestEnv(t)

	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}

	lead, err := bgy.submitLead(sampleLead("Ana Reyes"))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := bgy.updateLead(lead.Id, map[string]interface{}{
		"location": "Makati",
		"priority": "moderate",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Location != "Makati" || updated.Priority != "moderate" {
		t.Fatalf("partial update not applied: %+v", updated)
	}
	if updated.PatientName != "Ana Reyes" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.UpdatedAt.Before(lead.UpdatedAt) {
		t.Fatal("update should refresh the updatedAt timestamp")
	}

	if _, err := bgy.updateLead(lead.Id, map[string]interface{}{"status": "pending"}); err != ErrBadRequest {
		t.Fatal("invalid status should be rejected")
	}

	if _, err := bgy.updateLead(9999, map[string]interface{}{"location": "Makati"}); err != ErrBadRequest {
		t.Fatal("updating a missing lead should be rejected")
	}
}

func TestDeleteLead(t *testing.T) {
	env := setupTestEnv(t)

	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}

	lead, err := bgy.submitLead(sampleLead("Ana Reyes"))
	if err != nil {
		t.Fatal(err)
	}

	if err := bgy.deleteLead(lead.Id); err != nil {
		t.Fatal(err)
	}

	if _, err := bgy.getLead(lead.Id); err != ErrNotFound {
		t.Fatal("deleted lead should not be found")
	}

	if err := bgy.deleteLead(lead.Id); err != ErrBadRequest {
		t.Fatal("deleting a missing lead should be rejected")
	}
}

func TestRejectLead(t *testing.T) {
	env := setupTestEnv(t)

	admin, err := env.adminClient()
	if err != nil {
		t.Fatal(err)
	}
	bgy, err := env.newUser("bgy1", "barangay")
	if err != nil {
		t.Fatal(err)
	}

	lead, err := bgy.submitLead(sampleLead("Ana Reyes"))
	if err != nil {
		t.Fatal(err)
	}

	if err := admin.rejectLead(lead.Id); err != nil {
		t.Fatal(err)
	}

	if _, err := bgy.getLead(lead.Id); err != ErrNotFound {
		t.Fatal("rejected lead should be gone")
	}

	unpublished, err := admin.listUnpublishedLeads()
	if err != nil {
		t.Fatal(err)
	}
	if len(unpublished) != 0 {
		t.Fatal("rejected lead should not remain in the unpublished list")
	}

	if err := admin.rejectLead(lead.Id); err != ErrBadRequest {
		t.Fatal("rejecting a missing lead should be rejected")
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	env := setupTestEnv(t)

	anon := env.newClient()
	if _, err := anon.listUnpublishedLeads(); err != ErrUnauthorized {
		t.Fatal("anonymous access to admin endpoints should be unauthorized")
	}

	student, err := env.newUser("stud1", "student")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := student.stats(); err != ErrUnauthorized {
		t.Fatal("non-admin access to admin endpoints should be unauthorized")
	}
}
