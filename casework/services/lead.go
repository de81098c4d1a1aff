package services

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type LeadService struct {
	db *gorm.DB
}

func (s *LeadService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.ListPublished)
	r.Post("/", s.Create)
	r.Get("/{lead_id}", s.Get)
	r.Patch("/{lead_id}", s.Update)
	r.Delete("/{lead_id}", s.Delete)

	return r
}

type LeadInfo struct {
	Id               uint      `json:"id"`
	PatientName      string    `json:"patientName"`
	Age              *int      `json:"age"`
	ContactInfo      string    `json:"contactInfo"`
	Address          string    `json:"address"`
	IssueDescription string    `json:"issueDescription"`
	Priority         string    `json:"priority"`
	Source           string    `json:"source"`
	Location         string    `json:"location"`
	Status           string    `json:"status"`
	SubmittedBy      *uint     `json:"submittedBy"`
	ClaimedBy        *uint     `json:"claimedBy"`
	IsPublished      bool      `json:"isPublished"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func convertToLeadInfo(lead *schema.CaseLead) LeadInfo {
	return LeadInfo{
		Id:               lead.Id,
		PatientName:      lead.PatientName,
		Age:              lead.Age,
		ContactInfo:      lead.ContactInfo,
		Address:          lead.Address,
		IssueDescription: lead.IssueDescription,
		Priority:         lead.Priority,
		Source:           lead.Source,
		Location:         lead.Location,
		Status:           lead.Status,
		SubmittedBy:      lead.SubmittedBy,
		ClaimedBy:        lead.ClaimedBy,
		IsPublished:      lead.IsPublished,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func convertToLeadInfos(leads []schema.CaseLead) []LeadInfo {
	infos := make([]LeadInfo, 0, len(leads))
	for _, lead := range leads {
		infos = append(infos, convertToLeadInfo(&lead))
	}
	return infos
}

// ListPublished returns only leads the admin has released. Unpublished leads
// are visible through the admin service alone.
func (s *LeadService) ListPublished(w http.ResponseWriter, r *http.Request) {
	var leads []schema.CaseLead
	result := s.db.Find(&leads, "is_published = ?", true)
	if result.Error != nil {
		err := schema.NewDbError("retrieving published case leads", result.Error)
		http.Error(w, fmt.Sprintf("error listing case leads: %v", err), http.StatusInternalServerError)
		return
	}

	writeJsonResponse(w, convertToLeadInfos(leads))
}

func (s *LeadService) Get(w http.ResponseWriter, r *http.Request) {
	leadId, ok := idParam(w, r, "lead_id")
	if !ok {
		return
	}

	lead, err := schema.GetCaseLead(leadId, s.db)
	if err != nil {
		if schema.IsNotFound(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("error retrieving case lead: %v", err), http.StatusInternalServerError)
		}
		return
	}

	writeJsonResponse(w, convertToLeadInfo(&lead))
}

type createLeadRequest struct {
	PatientName      string `json:"patientName"`
	Age              *int   `json:"age"`
	ContactInfo      string `json:"contactInfo"`
	Address          string `json:"address"`
	IssueDescription string `json:"issueDescription"`
	Priority         string `json:"priority"`
	Source           string `json:"source"`
	Location         string `json:"location"`
	SubmittedBy      *uint  `json:"submittedBy"`
}

func (p *createLeadRequest) validate() error {
	if p.PatientName == "" || p.ContactInfo == "" || p.Address == "" {
		return fmt.Errorf("patientName, contactInfo, and address are required")
	}
	if p.IssueDescription == "" || p.Location == "" {
		return fmt.Errorf("issueDescription and location are required")
	}
	if err := schema.CheckValidPriority(p.Priority); err != nil {
		return err
	}
	return schema.CheckValidSource(p.Source)
}

// Create always produces an unpublished, available, unclaimed lead. Callers
// cannot bypass the publication gate regardless of the submitted payload.
func (s *LeadService) Create(w http.ResponseWriter, r *http.Request) {
	var params createLeadRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if err := params.validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid case lead data: %v", err), http.StatusBadRequest)
		return
	}

	lead := schema.CaseLead{
		PatientName:      params.PatientName,
		Age:              params.Age,
		ContactInfo:      params.ContactInfo,
		Address:          params.Address,
		IssueDescription: params.IssueDescription,
		Priority:         params.Priority,
		Source:           params.Source,
		Location:         params.Location,
		Status:           schema.LeadAvailable,
		SubmittedBy:      params.SubmittedBy,
		ClaimedBy:        nil,
		IsPublished:      false,
	}

	result := s.db.Create(&lead)
	if result.Error != nil {
		err := schema.NewDbError("creating case lead", result.Error)
		http.Error(w, fmt.Sprintf("error creating case lead: %v", err), http.StatusInternalServerError)
		return
	}

	slog.Info("case lead submitted", "lead_id", lead.Id, "priority", lead.Priority, "source", lead.Source)

	writeJsonResponse(w, convertToLeadInfo(&lead))
}

type updateLeadRequest struct {
	PatientName      *string `json:"patientName"`
	Age              *int    `json:"age"`
	ContactInfo      *string `json:"contactInfo"`
	Address          *string `json:"address"`
	IssueDescription *string `json:"issueDescription"`
	Priority         *string `json:"priority"`
	Source           *string `json:"source"`
	Location         *string `json:"location"`
	Status           *string `json:"status"`
}

func (p *updateLeadRequest) validate() error {
	if p.Priority != nil {
		if err := schema.CheckValidPriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.Source != nil {
		if err := schema.CheckValidSource(*p.Source); err != nil {
			return err
		}
	}
	if p.Status != nil {
		return schema.CheckValidLeadStatus(*p.Status)
	}
	return nil
}

func (s *LeadService) Update(w http.ResponseWriter, r *http.Request) {
	leadId, ok := idParam(w, r, "lead_id")
	if !ok {
		return
	}

	var params updateLeadRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if err := params.validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid case lead data: %v", err), http.StatusBadRequest)
		return
	}

	var updated schema.CaseLead
	err := s.db.Transaction(func(txn *gorm.DB) error {
		lead, err := schema.GetCaseLead(leadId, txn)
		if err != nil {
			return err
		}

		if params.PatientName != nil {
			lead.PatientName = *params.PatientName
		}
		if params.Age != nil {
			lead.Age = params.Age
		}
		if params.ContactInfo != nil {
			lead.ContactInfo = *params.ContactInfo
		}
		if params.Address != nil {
			lead.Address = *params.Address
		}
		if params.IssueDescription != nil {
			lead.IssueDescription = *params.IssueDescription
		}
		if params.Priority != nil {
			lead.Priority = *params.Priority
		}
		if params.Source != nil {
			lead.Source = *params.Source
		}
		if params.Location != nil {
			lead.Location = *params.Location
		}
		if params.Status != nil {
			lead.Status = *params.Status
		}

		lead.UpdatedAt = time.Now().UTC()

		result := txn.Save(&lead)
		if result.Error != nil {
			return schema.NewDbError("updating case lead", result.Error)
		}

		updated = lead
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("error updating case lead %v: %v", leadId, err), mutationStatus(err))
		return
	}

	writeJsonResponse(w, convertToLeadInfo(&updated))
}

// Delete removes the lead without touching dependent saved/claimed rows.
// Joined reads filter the resulting orphans.
func (s *LeadService) Delete(w http.ResponseWriter, r *http.Request) {
	leadId, ok := idParam(w, r, "lead_id")
	if !ok {
		return
	}

	err := s.db.Transaction(func(txn *gorm.DB) error {
		if _, err := schema.GetCaseLead(leadId, txn); err != nil {
			return err
		}

		result := txn.Delete(&schema.CaseLead{Id: leadId})
		if result.Error != nil {
			return schema.NewDbError("deleting case lead", result.Error)
		}
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("error deleting case lead %v: %v", leadId, err), mutationStatus(err))
		return
	}

	slog.Info("case lead deleted", "lead_id", leadId)

	writeNoContent(w)
}
