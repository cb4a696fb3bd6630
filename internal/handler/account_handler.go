package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-account-service/internal/middleware"
	"go-account-service/internal/model"
	"go-account-service/internal/service"
	"go-account-service/pkg/apierror"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AccountList{Accounts: views})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("bad_request", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())

	view, err := h.accounts.Update(r.Context(), claims, id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())

	if err := h.accounts.Delete(r.Context(), claims, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusNoContent, nil)
}

func accountIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.New("bad_request", "account id must be a positive integer", "id", http.StatusBadRequest)
	}
	return id, nil
}
