package services

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"casework_platform/casework/auth"
	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type AdminService struct {
	db       *gorm.DB
	sessions *auth.JwtManager
}

func (s *AdminService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.sessions.Verifier())
	r.Use(s.sessions.Authenticator())
	r.Use(auth.AdminOnly(s.db))

	r.Get("/unpublished-leads", s.UnpublishedLeads)
	r.Get("/stats", s.Stats)

	r.Post("/case-leads/{lead_id}/publish", s.Publish)
	r.Delete("/case-leads/{lead_id}", s.Reject)

	return r
}

func (s *AdminService) UnpublishedLeads(w http.ResponseWriter, r *http.Request) {
	var leads []schema.CaseLead
	result := s.db.Find(&leads, "is_published = ?", false)
	if result.Error != nil {
		err := schema.NewDbError("retrieving unpublished case leads", result.Error)
		http.Error(w, fmt.Sprintf("error listing unpublished leads: %v", err), http.StatusInternalServerError)
		return
	}

	writeJsonResponse(w, convertToLeadInfos(leads))
}

// Publish releases a lead to non-admin roles. Publishing an already published
// lead is a no-op.
func (s *AdminService) Publish(w http.ResponseWriter, r *http.Request) {
	leadId, ok := idParam(w, r, "lead_id")
	if !ok {
		return
	}

	var published schema.CaseLead
	err := s.db.Transaction(func(txn *gorm.DB) error {
		lead, err := schema.GetCaseLead(leadId, txn)
		if err != nil {
			return err
		}

		if !lead.IsPublished {
			lead.IsPublished = true
			lead.UpdatedAt = time.Now().UTC()

			result := txn.Save(&lead)
			if result.Error != nil {
				return schema.NewDbError("publishing case lead", result.Error)
			}
		}

		published = lead
		return nil
	})
	if err != nil {
		if schema.IsNotFound(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("error publishing case lead %v: %v", leadId, err), mutationStatus(err))
		}
		return
	}

	slog.Info("case lead published", "lead_id", leadId)

	writeJsonResponse(w, convertToLeadInfo(&published))
}

// Reject discards a submitted lead. Irreversible.
func (s *AdminService) Reject(w http.ResponseWriter, r *http.Request) {
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
			return schema.NewDbError("rejecting case lead", result.Error)
		}
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("error rejecting case lead %v: %v", leadId, err), mutationStatus(err))
		return
	}

	slog.Info("case lead rejected", "lead_id", leadId)

	writeNoContent(w)
}

type StatsResponse struct {
	ActiveStudents int64 `json:"activeStudents"`
	TotalLeads     int64 `json:"totalLeads"`
	PendingReviews int64 `json:"pendingReviews"`
	CompletedCases int64 `json:"completedCases"`
}

// Stats recomputes every count on each request. No caching, the store is small
// enough that full scans are acceptable.
func (s *AdminService) Stats(w http.ResponseWriter, r *http.Request) {
	var stats StatsResponse

	counts := []struct {
		dest   *int64
		action string
		query  *gorm.DB
	}{
		{&stats.ActiveStudents, "counting active students",
			s.db.Model(&schema.User{}).Where("role = ? and is_active = ?", schema.StudentRole, true)},
		{&stats.TotalLeads, "counting case leads",
			s.db.Model(&schema.CaseLead{})},
		{&stats.PendingReviews, "counting unpublished case leads",
			s.db.Model(&schema.CaseLead{}).Where("is_published = ?", false)},
		{&stats.CompletedCases, "counting completed case leads",
			s.db.Model(&schema.CaseLead{}).Where("status = ?", schema.LeadCompleted)},
	}

	for _, c := range counts {
		result := c.query.Count(c.dest)
		if result.Error != nil {
			err := schema.NewDbError(c.action, result.Error)
			http.Error(w, fmt.Sprintf("error computing stats: %v", err), http.StatusInternalServerError)
			return
		}
	}

	writeJsonResponse(w, stats)
}
