package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// ErrLeadNotClaimable is returned when the conditional claim update matches no
// row: the lead is unpublished, already claimed, or completed.
var ErrLeadNotClaimable = errors.New("case lead is not available to claim")

type ClaimService struct {
	db *gorm.DB
}

func (s *ClaimService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{user_id}", s.List)
	r.Post("/", s.Claim)
	r.Patch("/{claim_id}", s.Update)

	return r
}

type ClaimedCaseInfo struct {
	Id              uint       `json:"id"`
	UserId          uint       `json:"userId"`
	CaseLeadId      uint       `json:"caseLeadId"`
	Status          string     `json:"status"`
	AppointmentDate *time.Time `json:"appointmentDate"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type ClaimedCaseWithLead struct {
	ClaimedCaseInfo
	CaseLead LeadInfo `json:"caseLead"`
}

func convertToClaimedCaseInfo(claim *schema.ClaimedCase) ClaimedCaseInfo {
	return ClaimedCaseInfo{
		Id:              claim.Id,
		UserId:          claim.UserId,
		CaseLeadId:      claim.CaseLeadId,
		Status:          claim.Status,
		AppointmentDate: claim.AppointmentDate,
		Notes:           claim.Notes,
		CreatedAt:       claim.CreatedAt,
		UpdatedAt:       claim.UpdatedAt,
	}
}

func (s *ClaimService) List(w http.ResponseWriter, r *http.Request) {
	userId, ok := idParam(w, r, "user_id")
	if !ok {
		return
	}

	var claims []schema.ClaimedCase
	result := s.db.Find(&claims, "user_id = ?", userId)
	if result.Error != nil {
		err := schema.NewDbError("retrieving claimed cases", result.Error)
		http.Error(w, fmt.Sprintf("error listing claimed cases: %v", err), http.StatusInternalServerError)
		return
	}

	leads, err := leadsById(s.db, leadIdsOf(claims, func(cc schema.ClaimedCase) uint { return cc.CaseLeadId }))
	if err != nil {
		http.Error(w, fmt.Sprintf("error listing claimed cases: %v", err), http.StatusInternalServerError)
		return
	}

	infos := make([]ClaimedCaseWithLead, 0, len(claims))
	for _, cc := range claims {
		lead, ok := leads[cc.CaseLeadId]
		if !ok {
			continue
		}
		infos = append(infos, ClaimedCaseWithLead{
			ClaimedCaseInfo: convertToClaimedCaseInfo(&cc),
			CaseLead:        convertToLeadInfo(&lead),
		})
	}
	writeJsonResponse(w, infos)
}

type claimCaseRequest struct {
	UserId     uint `json:"userId"`
	CaseLeadId uint `json:"caseLeadId"`
}

// Claim commits a student to a lead. The lead status flip and the claim record
// creation happen in one transaction, and the status flip is conditional on the
// lead still being published and available, so concurrent claims on the same
// lead produce exactly one winner.
func (s *ClaimService) Claim(w http.ResponseWriter, r *http.Request) {
	var params claimCaseRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if params.UserId == 0 || params.CaseLeadId == 0 {
		http.Error(w, "userId and caseLeadId are required", http.StatusBadRequest)
		return
	}

	claim := schema.ClaimedCase{
		UserId:          params.UserId,
		CaseLeadId:      params.CaseLeadId,
		Status:          schema.ClaimContacted,
		AppointmentDate: nil,
		Notes:           nil,
	}

	err := s.db.Transaction(func(txn *gorm.DB) error {
		result := txn.Model(&schema.CaseLead{}).
			Where("id = ?", params.CaseLeadId).
			Where("status = ?", schema.LeadAvailable).
			Where("is_published = ?", true).
			Updates(map[string]interface{}{
				"status":     schema.LeadClaimed,
				"claimed_by": params.UserId,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return schema.NewDbError("claiming case lead", result.Error)
		}
		if result.RowsAffected == 0 {
			exists, err := schema.CaseLeadExists(txn, params.CaseLeadId)
			if err != nil {
				return err
			}
			if !exists {
				return schema.NewNotFoundError("case lead", params.CaseLeadId)
			}
			return ErrLeadNotClaimable
		}

		createResult := txn.Create(&claim)
		if createResult.Error != nil {
			return schema.NewDbError("creating claimed case", createResult.Error)
		}
		return nil
	})
	if err != nil {
		status := mutationStatus(err)
		if errors.Is(err, ErrLeadNotClaimable) {
			status = http.StatusConflict
		}
		http.Error(w, fmt.Sprintf("error claiming case lead %v: %v", params.CaseLeadId, err), status)
		return
	}

	slog.Info("case lead claimed", "lead_id", params.CaseLeadId, "user_id", params.UserId, "claim_id", claim.Id)

	writeJsonResponse(w, convertToClaimedCaseInfo(&claim))
}

type updateClaimedCaseRequest struct {
	Status          *string    `json:"status"`
	AppointmentDate *time.Time `json:"appointmentDate"`
	Notes           *string    `json:"notes"`
}

// Update advances the claim's own state machine. Notes can change in any state,
// including after done. Moving to scheduled requires an appointment date, either
// on this update or already recorded. Moving to done marks the parent lead
// completed in the same transaction.
func (s *ClaimService) Update(w http.ResponseWriter, r *http.Request) {
	claimId, ok := idParam(w, r, "claim_id")
	if !ok {
		return
	}

	var params updateClaimedCaseRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if params.Status != nil {
		if err := schema.CheckValidClaimStatus(*params.Status); err != nil {
			http.Error(w, fmt.Sprintf("invalid claimed case data: %v", err), http.StatusBadRequest)
			return
		}
	}

	var updated schema.ClaimedCase
	err := s.db.Transaction(func(txn *gorm.DB) error {
		claim, err := schema.GetClaimedCase(claimId, txn)
		if err != nil {
			return err
		}

		if params.AppointmentDate != nil {
			claim.AppointmentDate = params.AppointmentDate
		}
		if params.Notes != nil {
			claim.Notes = params.Notes
		}
		if params.Status != nil {
			if *params.Status == schema.ClaimScheduled && claim.AppointmentDate == nil {
				return fmt.Errorf("an appointment date is required to mark a claim as scheduled")
			}
			claim.Status = *params.Status
		}

		claim.UpdatedAt = time.Now().UTC()

		result := txn.Save(&claim)
		if result.Error != nil {
			return schema.NewDbError("updating claimed case", result.Error)
		}

		if params.Status != nil && *params.Status == schema.ClaimDone {
			if err := completeParentLead(txn, &claim); err != nil {
				return err
			}
		}

		updated = claim
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("error updating claimed case %v: %v", claimId, err), mutationStatus(err))
		return
	}

	writeJsonResponse(w, convertToClaimedCaseInfo(&updated))
}

// completeParentLead marks the claimed lead as completed once the claim is
// done. A missing parent lead is tolerated, dependent rows are not cascaded on
// lead deletion so the claim may legitimately outlive its lead.
func completeParentLead(txn *gorm.DB, claim *schema.ClaimedCase) error {
	result := txn.Model(&schema.CaseLead{}).
		Where("id = ?", claim.CaseLeadId).
		Where("status = ?", schema.LeadClaimed).
		Updates(map[string]interface{}{
			"status":     schema.LeadCompleted,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return schema.NewDbError("completing parent case lead", result.Error)
	}

	if result.RowsAffected == 0 {
		slog.Warn("claim marked done but parent lead was not in claimed state",
			"claim_id", claim.Id, "lead_id", claim.CaseLeadId)
	}

	return nil
}
