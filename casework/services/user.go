package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"casework_platform/casework/auth"
	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("a user with this username already exists")
	ErrEmailAlreadyExists    = errors.New("a user with this email already exists")
)

type UserService struct {
	db       *gorm.DB
	sessions *auth.JwtManager
}

func (s *UserService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.List)
	r.Post("/", s.Create)
	r.Patch("/{user_id}", s.Update)

	return r
}

type UserInfo struct {
	Id         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsActive   bool      `json:"isActive"`
	LastActive time.Time `json:"lastActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func convertToUserInfo(user *schema.User) UserInfo {
	return UserInfo{
		Id:         user.Id,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsActive:   user.IsActive,
		LastActive: user.LastActive,
		CreatedAt:  user.CreatedAt,
	}
}

func (s *UserService) List(w http.ResponseWriter, r *http.Request) {
	var users []schema.User
	result := s.db.Find(&users)
	if result.Error != nil {
		err := schema.NewDbError("retrieving list of users", result.Error)
		http.Error(w, fmt.Sprintf("error listing users: %v", err), http.StatusInternalServerError)
		return
	}

	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, convertToUserInfo(&u))
	}
	writeJsonResponse(w, infos)
}

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (p *createUserRequest) validate() error {
	if p.Username == "" || p.Email == "" || p.Password == "" {
		return fmt.Errorf("username, email, and password are required")
	}
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("firstName and lastName are required")
	}
	return schema.CheckValidRole(p.Role)
}

func (s *UserService) createUser(params createUserRequest) (schema.User, error) {
	hashedPwd, err := auth.HashPassword(params.Password)
	if err != nil {
		return schema.User{}, err
	}

	newUser := schema.User{
		Username:   params.Username,
		Email:      params.Email,
		Password:   hashedPwd,
		Role:       params.Role,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		IsActive:   true,
		LastActive: time.Now().UTC(),
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		var existingUser schema.User
		result := txn.Find(&existingUser, "username = ? or email = ?", params.Username, params.Email)
		if result.Error != nil {
			return schema.NewDbError("checking for existing username/email", result.Error)
		}
		if result.RowsAffected != 0 {
			if existingUser.Username == params.Username {
				return ErrUsernameAlreadyExists
			}
			return ErrEmailAlreadyExists
		}

		result = txn.Create(&newUser)
		if result.Error != nil {
			return schema.NewDbError("creating user", result.Error)
		}

		return nil
	})
	if err != nil {
		return schema.User{}, err
	}

	return newUser, nil
}

func (s *UserService) Create(w http.ResponseWriter, r *http.Request) {
	var params createUserRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if err := params.validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid user data: %v", err), http.StatusBadRequest)
		return
	}

	user, err := s.createUser(params)
	if err != nil {
		http.Error(w, fmt.Sprintf("error creating user: %v", err), mutationStatus(err))
		return
	}

	writeJsonResponse(w, convertToUserInfo(&user))
}

// updateUserRequest carries optional fields, each applied only when present.
type updateUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	IsActive  *bool   `json:"isActive"`
}

func (s *UserService) Update(w http.ResponseWriter, r *http.Request) {
	userId, ok := idParam(w, r, "user_id")
	if !ok {
		return
	}

	var params updateUserRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	if params.Role != nil {
		if err := schema.CheckValidRole(*params.Role); err != nil {
			http.Error(w, fmt.Sprintf("invalid user data: %v", err), http.StatusBadRequest)
			return
		}
	}

	var updated schema.User
	err := s.db.Transaction(func(txn *gorm.DB) error {
		user, err := schema.GetUser(userId, txn)
		if err != nil {
			return err
		}

		if params.Email != nil {
			user.Email = *params.Email
		}
		if params.Password != nil {
			hashedPwd, err := auth.HashPassword(*params.Password)
			if err != nil {
				return err
			}
			user.Password = hashedPwd
		}
		if params.Role != nil {
			user.Role = *params.Role
		}
		if params.FirstName != nil {
			user.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			user.LastName = *params.LastName
		}
		if params.IsActive != nil {
			user.IsActive = *params.IsActive
		}

		result := txn.Save(&user)
		if result.Error != nil {
			return schema.NewDbError("updating user", result.Error)
		}

		updated = user
		return nil
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("error updating user %v: %v", userId, err), mutationStatus(err))
		return
	}

	writeJsonResponse(w, convertToUserInfo(&updated))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Id          uint   `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

func (s *UserService) Login(w http.ResponseWriter, r *http.Request) {
	var params loginRequest
	if !parseRequestBody(w, r, &params) {
		return
	}

	user, err := auth.CheckCredentials(params.Username, params.Password, s.db)
	if err != nil {
		http.Error(w, fmt.Sprintf("login failed: %v", err), http.StatusUnauthorized)
		return
	}

	result := s.db.Model(&schema.User{Id: user.Id}).Update("last_active", time.Now().UTC())
	if result.Error != nil {
		err := schema.NewDbError("updating user last active time", result.Error)
		http.Error(w, fmt.Sprintf("login failed: %v", err), http.StatusInternalServerError)
		return
	}

	token, err := s.sessions.CreateUserJwt(user.Id)
	if err != nil {
		http.Error(w, fmt.Sprintf("login failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJsonResponse(w, loginResponse{
		Id:          user.Id,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		AccessToken: token,
	})
}
