package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carpool-matching-service/internal/domain"
	"carpool-matching-service/internal/domain/model"
	"carpool-matching-service/internal/usecase"
)

// ===== Auth =====

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	account, err := s.accountUC.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeError(w, http.StatusBadRequest, ve.Details[0])
			return
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "email is already registered")
			return
		}
		s.log.Error().Err(err).Msg("register failed")
		writeError(w, http.StatusInternalServerError, "failed to register account")
		return
	}

	token, err := s.auth.Mint(account)
	if err != nil {
		s.log.Error().Err(err).Msg("token mint failed")
		writeError(w, http.StatusInternalServerError, "failed to register account")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		Token:   token,
		Account: accountResponse{ID: account.ID, Email: account.Email},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	account, err := s.accountUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.log.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	token, err := s.auth.Mint(account)
	if err != nil {
		s.log.Error().Err(err).Msg("token mint failed")
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Token:   token,
		Account: accountResponse{ID: account.ID, Email: account.Email},
	})
}

// ===== Users =====

type userUpsertRequest struct {
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	Location      *model.Location `json:"location"`
	Capacity      *int            `json:"capacity"`
	SeatsRequired *int            `json:"seatsRequired"`
}

func (s *Server) handleUserUpsert(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	var req userUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	user, existed, err := s.userUC.Upsert(r.Context(), identity.AccountID, usecase.UpsertInput{
		UserID:        req.UserID,
		Name:          req.Name,
		Role:          req.Role,
		Location:      req.Location,
		Capacity:      req.Capacity,
		SeatsRequired: req.SeatsRequired,
	})
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeValidationError(w, "invalid user payload", ve.Details)
			return
		}
		s.log.Error().Err(err).Msg("user upsert failed")
		writeError(w, http.StatusInternalServerError, "failed to persist user")
		return
	}

	status := http.StatusCreated
	message := "user created"
	if existed {
		status = http.StatusOK
		message = "user updated"
	}
	writeJSON(w, status, map[string]any{"message": message, "user": user})
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	users, err := s.userUC.List(r.Context(), identity.AccountID)
	if err != nil {
		s.log.Error().Err(err).Msg("user list failed")
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// ===== Geocode =====

func (s *Server) handleGeocodeSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	places, err := s.geocodeUC.Search(r.Context(), query, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("geocode search failed")
		writeError(w, http.StatusBadGateway, "address search failed")
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// ===== Carpool =====

type optimizeRequest struct {
	Drivers    *[]model.Driver    `json:"drivers"`
	Passengers *[]model.Passenger `json:"passengers"`
}

// decodeOptimize reports whether either list was present in the body; absent
// lists mean "load the caller's stored users instead".
func decodeOptimize(r *http.Request) (drivers []model.Driver, passengers []model.Passenger, provided bool, err error) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, false, err
	}
	provided = req.Drivers != nil || req.Passengers != nil
	if req.Drivers != nil {
		drivers = *req.Drivers
	}
	if req.Passengers != nil {
		passengers = *req.Passengers
	}
	return drivers, passengers, provided, nil
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	drivers, passengers, provided, err := decodeOptimize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	result, err := s.optimizeUC.Optimize(r.Context(), identity.AccountID, drivers, passengers, provided)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeValidationError(w, "invalid optimize payload", ve.Details)
			return
		}
		s.log.Error().Err(err).Msg("optimize failed")
		writeError(w, http.StatusInternalServerError, "failed to run optimization")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleOptimizeAsync(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	drivers, passengers, provided, err := decodeOptimize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	job, err := s.optimizeUC.Enqueue(r.Context(), identity.AccountID, drivers, passengers, provided)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			writeValidationError(w, "invalid optimize payload", ve.Details)
			return
		}
		s.log.Error().Err(err).Msg("enqueue failed")
		writeError(w, http.StatusInternalServerError, "failed to enqueue optimization")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"jobId":  job.ID,
		"status": string(job.Status),
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	result, err := s.optimizeUC.GetResult(r.Context(), chi.URLParam(r, "id"), identity.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "optimization result not found")
			return
		}
		s.log.Error().Err(err).Msg("result fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	job, err := s.optimizeUC.GetJob(r.Context(), chi.URLParam(r, "id"), identity.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "optimization job not found")
			return
		}
		s.log.Error().Err(err).Msg("job fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	history, err := s.optimizeUC.History(r.Context(), identity.AccountID)
	if err != nil {
		s.log.Error().Err(err).Msg("history fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleDriverRoute(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	route, err := s.optimizeUC.DriverRoute(r.Context(), identity.AccountID, chi.URLParam(r, "driverId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "driver route not found")
			return
		}
		s.log.Error().Err(err).Msg("driver route fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to load driver route")
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
