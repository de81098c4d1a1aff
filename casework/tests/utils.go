package tests

import (
	"testing"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func sampleLead(patientName string) newLeadRequest {
	return newLeadRequest{
		PatientName:      patientName,
		Age:              intPtr(34),
		ContactInfo:      "09123456789",
		Address:          "123 Main St, Quezon City",
		IssueDescription: "Severe toothache on upper left molar, pain for 3 days.",
		Priority:         "urgent",
		Source:           "facebook",
		Location:         "Quezon City",
	}
}

// publishedLead submits a lead and publishes it through the admin surface.
func publishedLead(t *testing.T, submitter *client, admin *client, patientName string) uint {
	t.Helper()

	lead, err := submitter.submitLead(sampleLead(patientName))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := admin.publishLead(lead.Id); err != nil {
		t.Fatal(err)
	}

	return lead.Id
}
