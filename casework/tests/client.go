package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"casework_platform/casework/services"

	"github.com/go-chi/chi/v5"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

type client struct {
	api    chi.Router
	token  string
	userId uint
}

func statusError(status int, body string) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		return fmt.Errorf("request failed with status %d and res '%v'", status, body)
	}
}

func do[T any](c *client, method, endpoint string, body []byte) (T, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, endpoint, reader)
	if c.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %v", c.token))
	}
	w := httptest.NewRecorder()
	c.api.ServeHTTP(w, req)

	var data T

	res := w.Result()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return data, statusError(res.StatusCode, w.Body.String())
	}

	if res.StatusCode == http.StatusNoContent {
		return data, nil
	}

	err := json.NewDecoder(res.Body).Decode(&data)
	if err != nil {
		return data, fmt.Errorf("json encode/decode error: %w", err)
	}

	return data, nil
}

type NoBody struct{}

func get[T any](c *client, endpoint string) (T, error) {
	return do[T](c, "GET", endpoint, nil)
}

func post[T any](c *client, endpoint string, body interface{}) (T, error) {
	data, err := json.Marshal(body)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("json encode/decode error: %w", err)
	}
	return do[T](c, "POST", endpoint, data)
}

func patch[T any](c *client, endpoint string, body interface{}) (T, error) {
	data, err := json.Marshal(body)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("json encode/decode error: %w", err)
	}
	return do[T](c, "PATCH", endpoint, data)
}

func deleteReq(c *client, endpoint string) error {
	_, err := do[NoBody](c, "DELETE", endpoint, nil)
	return err
}

type loginResponse struct {
	Id          uint   `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

func (c *client) login(username, password string) error {
	res, err := post[loginResponse](c, "/auth/login", map[string]string{
		"username": username, "password": password,
	})
	if err != nil {
		return err
	}

	c.token = res.AccessToken
	c.userId = res.Id

	return nil
}

func (c *client) loginRaw(username, password string) (loginResponse, error) {
	return post[loginResponse](c, "/auth/login", map[string]string{
		"username": username, "password": password,
	})
}

type newUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *client) createUser(params newUserRequest) (services.UserInfo, error) {
	return post[services.UserInfo](c, "/users", params)
}

func (c *client) listUsers() ([]services.UserInfo, error) {
	return get[[]services.UserInfo](c, "/users")
}

func (c *client) updateUser(userId uint, params map[string]interface{}) (services.UserInfo, error) {
	return patch[services.UserInfo](c, fmt.Sprintf("/users/%d", userId), params)
}

type newLeadRequest struct {
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

func (c *client) submitLead(params newLeadRequest) (services.LeadInfo, error) {
	return post[services.LeadInfo](c, "/case-leads", params)
}

func (c *client) submitLeadRaw(payload map[string]interface{}) (services.LeadInfo, error) {
	return post[services.LeadInfo](c, "/case-leads", payload)
}

func (c *client) listPublishedLeads() ([]services.LeadInfo, error) {
	return get[[]services.LeadInfo](c, "/case-leads")
}

func (c *client) getLead(leadId uint) (services.LeadInfo, error) {
	return get[services.LeadInfo](c, fmt.Sprintf("/case-leads/%d", leadId))
}

func (c *client) updateLead(leadId uint, params map[string]interface{}) (services.LeadInfo, error) {
	return patch[services.LeadInfo](c, fmt.Sprintf("/case-leads/%d", leadId), params)
}

func (c *client) deleteLead(leadId uint) error {
	return deleteReq(c, fmt.Sprintf("/case-leads/%d", leadId))
}

func (c *client) listUnpublishedLeads() ([]services.LeadInfo, error) {
	return get[[]services.LeadInfo](c, "/admin/unpublished-leads")
}

func (c *client) publishLead(leadId uint) (services.LeadInfo, error) {
	return post[services.LeadInfo](c, fmt.Sprintf("/admin/case-leads/%d/publish", leadId), NoBody{})
}

func (c *client) rejectLead(leadId uint) error {
	return deleteReq(c, fmt.Sprintf("/admin/case-leads/%d", leadId))
}

func (c *client) stats() (services.StatsResponse, error) {
	return get[services.StatsResponse](c, "/admin/stats")
}

func (c *client) saveCase(leadId uint) (services.SavedCaseInfo, error) {
	return post[services.SavedCaseInfo](c, "/saved-cases", map[string]uint{
		"userId": c.userId, "caseLeadId": leadId,
	})
}

func (c *client) removeSavedCase(leadId uint) error {
	return deleteReq(c, fmt.Sprintf("/saved-cases/%d/%d", c.userId, leadId))
}

func (c *client) listSavedCases() ([]services.SavedCaseInfo, error) {
	return get[[]services.SavedCaseInfo](c, fmt.Sprintf("/saved-cases/%d", c.userId))
}

func (c *client) claimCase(leadId uint) (services.ClaimedCaseInfo, error) {
	return post[services.ClaimedCaseInfo](c, "/claimed-cases", map[string]uint{
		"userId": c.userId, "caseLeadId": leadId,
	})
}

func (c *client) listClaimedCases() ([]services.ClaimedCaseWithLead, error) {
	return get[[]services.ClaimedCaseWithLead](c, fmt.Sprintf("/claimed-cases/%d", c.userId))
}

type claimUpdate struct {
	Status          *string    `json:"status,omitempty"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (c *client) updateClaim(claimId uint, params claimUpdate) (services.ClaimedCaseInfo, error) {
	return patch[services.ClaimedCaseInfo](c, fmt.Sprintf("/claimed-cases/%d", claimId), params)
}
