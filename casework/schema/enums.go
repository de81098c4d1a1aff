package schema

import "fmt"

const (
	AdminRole    = "admin"
	StudentRole  = "student"
	BarangayRole = "barangay"
)

func CheckValidRole(role string) error {
	if role == AdminRole || role == StudentRole || role == BarangayRole {
		return nil
	}
	return fmt.Errorf("invalid role '%v', must be 'admin', 'student', or 'barangay'", role)
}

const (
	PriorityRoutine  = "routine"
	PriorityModerate = "moderate"
	PriorityUrgent   = "urgent"
)

func CheckValidPriority(priority string) error {
	if priority == PriorityRoutine || priority == PriorityModerate || priority == PriorityUrgent {
		return nil
	}
	return fmt.Errorf("invalid priority '%v', must be 'routine', 'moderate', or 'urgent'", priority)
}

const (
	SourceFacebook = "facebook"
	SourceReddit   = "reddit"
	SourceBarangay = "barangay"
)

func CheckValidSource(source string) error {
	if source == SourceFacebook || source == SourceReddit || source == SourceBarangay {
		return nil
	}
	return fmt.Errorf("invalid source '%v', must be 'facebook', 'reddit', or 'barangay'", source)
}

const (
	LeadAvailable = "available"
	// LeadSaved is accepted as a valid value but no operation assigns it,
	// saving is tracked entirely through SavedCase rows. Pending product
	// clarification on whether the lead status should ever reflect saves.
	LeadSaved     = "saved"
	LeadClaimed   = "claimed"
	LeadCompleted = "completed"
)

func CheckValidLeadStatus(status string) error {
	if status == LeadAvailable || status == LeadSaved || status == LeadClaimed || status == LeadCompleted {
		return nil
	}
	return fmt.Errorf("invalid lead status '%v'", status)
}

const (
	ClaimContacted = "contacted"
	ClaimScheduled = "scheduled"
	ClaimDone      = "done"
)

func CheckValidClaimStatus(status string) error {
	if status == ClaimContacted || status == ClaimScheduled || status == ClaimDone {
		return nil
	}
	return fmt.Errorf("invalid claim status '%v', must be 'contacted', 'scheduled', or 'done'", status)
}
