package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

var ErrAlreadySaved = errors.New("case lead is already saved by this user")

type SavedCaseService struct {
	db *gorm.DB
}

func (s *SavedCaseService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{user_id}", s.List)
	r.Post("/", s.Save)
	r.Delete("/{user_id}/{lead_id}", s.Remove)

	return r
}

type SavedCaseInfo struct {
	Id         uint      `json:"id"`
	UserId     uint      `json:"userId"`
	CaseLeadId uint      `json:"caseLeadId"`
	CreatedAt  time.Time `json:"createdAt"`
	CaseLead   LeadInfo  `json:"caseLead"`
}

// List joins each bookmark with its lead. Bookmarks whose lead has since been
// deleted are dropped from the result rather than surfaced as errors.
func (s *SavedCaseService) List(w http.ResponseWriter, r *http.Request) {
	userId, ok := idParam(w, r, "user_id")
	if !ok {
		return
	}

	var saved []schema.SavedCase
	result := s.db.Find(&saved, "user_id = ?", userId)
	if result.Error != nil {
		err := schema.NewDbError("retrieving saved cases", result.Error)
		http.Error(w, fmt.Sprintf("error listing saved cases: %v", err), http.StatusInternalServerError)
		return
	}

	leads, err := leadsById(s.db, leadIdsOf(saved, func(sc schema.SavedCase) uint { return sc.CaseLeadId }))
	if err != nil {
		http.Error(w, fmt.Sprintf("error listing saved cases: %v", err), http.StatusInternalServerError)
		return
	}

	infos := make([]SavedCaseInfo, 0, len(saved))
	for _, sc := range saved {
		lead, ok := leads[sc.CaseLeadId]
		if !ok {
			continue
		}
		infos = append(infos, SavedCaseInfo{
			Id:         sc.Id,
			UserId:     sc.UserId,
			CaseLeadId: sc.CaseLeadId,
			CreatedAt:  sc.CreatedAt,
			CaseLead:   convertToLeadInfo(&lead),
		})
	}
	writeJsonResponse(w, infos)
}

type saveCaseRequest struct {
	UserId     uint `json:"userId"`
	CaseLeadId uint `json:"caseLeadId"`
}

func (s *SavedCaseService) Save(w http.ResponseWriter, r *http.Request) {
	var params saveCaseRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if params.UserId == 0 || params.CaseLeadId == 0 {
		http.Error(w, "userId and caseLeadId are required", http.StatusBadRequest)
		return
	}

	saved := schema.SavedCase{UserId: params.UserId, CaseLeadId: params.CaseLeadId}

	err := s.db.Transaction(func(txn *gorm.DB) error {
		if _, err := schema.GetCaseLead(params.CaseLeadId, txn); err != nil {
			return err
		}

		var existing schema.SavedCase
		result := txn.Find(&existing, "user_id = ? and case_lead_id = ?", params.UserId, params.CaseLeadId)
		if result.Error != nil {
			return schema.NewDbError("checking for existing saved case", result.Error)
		}
		if result.RowsAffected != 0 {
			return ErrAlreadySaved
		}

		result = txn.Create(&saved)
		if result.Error != nil {
			return schema.NewDbError("creating saved case", result.Error)
		}
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("error saving case: %v", err), mutationStatus(err))
		return
	}

	writeJsonResponse(w, SavedCaseInfo{
		Id:         saved.Id,
		UserId:     saved.UserId,
		CaseLeadId: saved.CaseLeadId,
		CreatedAt:  saved.CreatedAt,
	})
}

// Remove deletes the bookmark if present, and is a no-op otherwise.
func (s *SavedCaseService) Remove(w http.ResponseWriter, r *http.Request) {
	userId, ok := idParam(w, r, "user_id")
	if !ok {
		return
	}
	leadId, ok := idParam(w, r, "lead_id")
	if !ok {
		return
	}

	result := s.db.Where("user_id = ? and case_lead_id = ?", userId, leadId).Delete(&schema.SavedCase{})
	if result.Error != nil {
		err := schema.NewDbError("removing saved case", result.Error)
		http.Error(w, fmt.Sprintf("error removing saved case: %v", err), http.StatusBadRequest)
		return
	}

	writeNoContent(w)
}

func leadIdsOf[T any](rows []T, id func(T) uint) []uint {
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, id(row))
	}
	return ids
}

func leadsById(db *gorm.DB, ids []uint) (map[uint]schema.CaseLead, error) {
	leads := make(map[uint]schema.CaseLead, len(ids))
	if len(ids) == 0 {
		return leads, nil
	}

	var found []schema.CaseLead
	result := db.Find(&found, "id IN ?", ids)
	if result.Error != nil {
		return nil, schema.NewDbError("retrieving case leads for join", result.Error)
	}

	for _, lead := range found {
		leads[lead.Id] = lead
	}
	return leads, nil
}
