// Package client is a typed Go client for the casework platform API.
package client

import (
	"fmt"
	"time"

	"casework_platform/casework/services"
)

type CaseworkClient struct {
	base baseClient

	userId uint
	role   string
}

func New(baseUrl string) *CaseworkClient {
	return &CaseworkClient{base: baseClient{baseUrl: baseUrl}}
}

func (c *CaseworkClient) UserId() uint {
	return c.userId
}

func (c *CaseworkClient) Role() string {
	return c.role
}

type loginResponse struct {
	Id          uint   `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

func (c *CaseworkClient) Login(username, password string) error {
	var res loginResponse
	err := c.base.Post("/api/v1/auth/login").
		Json(map[string]string{"username": username, "password": password}).
		Do(&res)
	if err != nil {
		return err
	}

	c.base.authToken = res.AccessToken
	c.userId = res.Id
	c.role = res.Role

	return nil
}

func (c *CaseworkClient) ListUsers() ([]services.UserInfo, error) {
	var users []services.UserInfo
	err := c.base.Get("/api/v1/users").Do(&users)
	return users, err
}

type NewUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *CaseworkClient) CreateUser(user NewUser) (services.UserInfo, error) {
	var created services.UserInfo
	err := c.base.Post("/api/v1/users").Json(user).Do(&created)
	return created, err
}

type NewCaseLead struct {
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

func (c *CaseworkClient) SubmitCaseLead(lead NewCaseLead) (services.LeadInfo, error) {
	var created services.LeadInfo
	err := c.base.Post("/api/v1/case-leads").Json(lead).Do(&created)
	return created, err
}

func (c *CaseworkClient) ListCaseLeads() ([]services.LeadInfo, error) {
	var leads []services.LeadInfo
	err := c.base.Get("/api/v1/case-leads").Do(&leads)
	return leads, err
}

func (c *CaseworkClient) GetCaseLead(leadId uint) (services.LeadInfo, error) {
	var lead services.LeadInfo
	err := c.base.Get(fmt.Sprintf("/api/v1/case-leads/%d", leadId)).Do(&lead)
	return lead, err
}

func (c *CaseworkClient) DeleteCaseLead(leadId uint) error {
	return c.base.Delete(fmt.Sprintf("/api/v1/case-leads/%d", leadId)).Do(nil)
}

func (c *CaseworkClient) ListUnpublishedLeads() ([]services.LeadInfo, error) {
	var leads []services.LeadInfo
	err := c.base.Get("/api/v1/admin/unpublished-leads").Do(&leads)
	return leads, err
}

func (c *CaseworkClient) PublishCaseLead(leadId uint) (services.LeadInfo, error) {
	var lead services.LeadInfo
	err := c.base.Post(fmt.Sprintf("/api/v1/admin/case-leads/%d/publish", leadId)).Do(&lead)
	return lead, err
}

func (c *CaseworkClient) RejectCaseLead(leadId uint) error {
	return c.base.Delete(fmt.Sprintf("/api/v1/admin/case-leads/%d", leadId)).Do(nil)
}

func (c *CaseworkClient) Stats() (services.StatsResponse, error) {
	var stats services.StatsResponse
	err := c.base.Get("/api/v1/admin/stats").Do(&stats)
	return stats, err
}

func (c *CaseworkClient) SaveCase(leadId uint) (services.SavedCaseInfo, error) {
	var saved services.SavedCaseInfo
	err := c.base.Post("/api/v1/saved-cases").
		Json(map[string]uint{"userId": c.userId, "caseLeadId": leadId}).
		Do(&saved)
	return saved, err
}

func (c *CaseworkClient) RemoveSavedCase(leadId uint) error {
	return c.base.Delete(fmt.Sprintf("/api/v1/saved-cases/%d/%d", c.userId, leadId)).Do(nil)
}

func (c *CaseworkClient) ListSavedCases() ([]services.SavedCaseInfo, error) {
	var saved []services.SavedCaseInfo
	err := c.base.Get(fmt.Sprintf("/api/v1/saved-cases/%d", c.userId)).Do(&saved)
	return saved, err
}

func (c *CaseworkClient) ClaimCase(leadId uint) (services.ClaimedCaseInfo, error) {
	var claim services.ClaimedCaseInfo
	err := c.base.Post("/api/v1/claimed-cases").
		Json(map[string]uint{"userId": c.userId, "caseLeadId": leadId}).
		Do(&claim)
	return claim, err
}

func (c *CaseworkClient) ListClaimedCases() ([]services.ClaimedCaseWithLead, error) {
	var claims []services.ClaimedCaseWithLead
	err := c.base.Get(fmt.Sprintf("/api/v1/claimed-cases/%d", c.userId)).Do(&claims)
	return claims, err
}

type ClaimUpdate struct {
	Status          *string    `json:"status,omitempty"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (c *CaseworkClient) UpdateClaimedCase(claimId uint, update ClaimUpdate) (services.ClaimedCaseInfo, error) {
	var claim services.ClaimedCaseInfo
	err := c.base.Patch(fmt.Sprintf("/api/v1/claimed-cases/%d", claimId)).Json(update).Do(&claim)
	return claim, err
}
