package services

import (
	"log"

	"casework_platform/casework/auth"
	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// CaseworkPlatform wires the per-resource services over a single shared store.
// Constructed once at startup, passed to every handler, no package-level state.
type CaseworkPlatform struct {
	user  UserService
	lead  LeadService
	saved SavedCaseService
	claim ClaimService
	admin AdminService
}

func NewCaseworkPlatform(db *gorm.DB) CaseworkPlatform {
	sessions := auth.NewJwtManager()

	return CaseworkPlatform{
		user:  UserService{db: db, sessions: sessions},
		lead:  LeadService{db: db},
		saved: SavedCaseService{db: db},
		claim: ClaimService{db: db},
		admin: AdminService{db: db, sessions: sessions},
	}
}

func (p *CaseworkPlatform) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Mount("/users", p.user.Routes())
	r.Mount("/case-leads", p.lead.Routes())
	r.Mount("/saved-cases", p.saved.Routes())
	r.Mount("/claimed-cases", p.claim.Routes())
	r.Mount("/admin", p.admin.Routes())

	r.Post("/auth/login", p.user.Login)

	return r
}

func (p *CaseworkPlatform) InitAdmin(username, email, password string) {
	existing, err := schema.GetUserByUsername(username, p.user.db)
	if err != nil {
		log.Panicf("error checking for existing admin at startup: %v", err)
	}
	if existing != nil {
		return
	}

	_, err = p.user.createUser(createUserRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Role:      schema.AdminRole,
		FirstName: "Platform",
		LastName:  "Admin",
	})
	if err != nil {
		log.Panicf("error initializing admin at startup: %v", err)
	}
}
