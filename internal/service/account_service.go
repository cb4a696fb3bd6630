package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

// AccountStore is the credential store contract. The Postgres
// implementation lives in internal/repository; tests supply an in-memory
// fake. The store's unique constraint on email is the real uniqueness
// enforcer; service-level lookups only produce friendlier errors.
type AccountStore interface {
	Create(ctx context.Context, a model.Account) (model.Account, error)
	FindByID(ctx context.Context, id int64) (model.Account, error)
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Update(ctx context.Context, id int64, patch model.AccountPatch) (model.Account, error)
	Delete(ctx context.Context, id int64) error
}

// ViewCache caches public account views. A nil cache disables caching.
type ViewCache interface {
	Get(ctx context.Context, id int64) (model.AccountView, bool)
	Set(ctx context.Context, view model.AccountView) error
	Invalidate(ctx context.Context, id int64) error
}

type AccountService struct {
	store      AccountStore
	tokens     *TokenService
	cache      ViewCache
	bcryptCost int
}

func NewAccountService(store AccountStore, tokens *TokenService, cache ViewCache, bcryptCost int) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{store: store, tokens: tokens, cache: cache, bcryptCost: bcryptCost}
}

func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)

	var violations []string
	if !isValidEmail(req.Email) {
		violations = append(violations, "email must be a valid address")
	}
	if len(req.Password) < minPasswordLen {
		violations = append(violations, "password must be at least 6 characters")
	}
	if !isValidName(req.Name) {
		violations = append(violations, "name must be between 2 and 50 characters")
	}
	if req.Role != "" && !isValidRole(req.Role) {
		violations = append(violations, "role must be 'user' or 'admin'")
	}
	if len(violations) > 0 {
		return model.AuthResponse{}, apierror.Validation(violations)
	}

	_, err := s.store.FindByEmail(ctx, req.Email)
	if err == nil {
		return model.AuthResponse{}, errEmailExists()
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	account := model.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    nowUTC(),
		UpdatedAt:    nowUTC(),
	}

	created, err := s.store.Create(ctx, account)
	if errors.Is(err, model.ErrEmailTaken) {
		// Lost the race between the existence check and the insert; the
		// unique index caught it.
		return model.AuthResponse{}, errEmailExists()
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return model.AuthResponse{}, err
	}

	slog.Info("account registered", "account_id", created.ID, "role", created.Role)
	return model.AuthResponse{Token: token, Account: created.View()}, nil
}

// Login deliberately reports the same invalid_credentials error for an
// unknown email and a wrong password. The inactive check runs only after
// the password has proven out, so account state is revealed to holders of
// valid credentials only.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)

	var violations []string
	if !isValidEmail(email) {
		violations = append(violations, "email must be a valid address")
	}
	if req.Password == "" {
		violations = append(violations, "password must not be empty")
	}
	if len(violations) > 0 {
		return model.AuthResponse{}, apierror.Validation(violations)
	}

	account, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.AuthResponse{}, errInvalidCredentials()
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errInvalidCredentials()
	}

	if !account.IsActive {
		return model.AuthResponse{}, apierror.New("account_inactive", "account is inactive", "", http.StatusForbidden)
	}

	token, err := s.tokens.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		return model.AuthResponse{}, err
	}

	slog.Info("account logged in", "account_id", account.ID)
	return model.AuthResponse{Token: token, Account: account.View()}, nil
}

func (s *AccountService) List(ctx context.Context) ([]model.AccountView, error) {
	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, a.View())
	}
	return views, nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (model.AccountView, error) {
	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, id); ok {
			return view, nil
		}
	}

	account, err := s.store.FindByID(ctx, id)
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.AccountView{}, errAccountNotFound()
	}
	if err != nil {
		return model.AccountView{}, err
	}

	view := account.View()
	if s.cache != nil {
		if err := s.cache.Set(ctx, view); err != nil {
			slog.Warn("account cache set failed", "account_id", id, "error", err)
		}
	}
	return view, nil
}

// Update applies a sparse patch to exactly one account. Permitted for the
// target account itself or for any admin. Absent fields stay untouched.
func (s *AccountService) Update(ctx context.Context, claims *model.Claims, id int64, req model.UpdateAccountRequest) (model.AccountView, error) {
	if claims == nil {
		return model.AccountView{}, apierror.New("unauthorized", "authentication required", "", http.StatusUnauthorized)
	}
	if claims.Subject != strconv.FormatInt(id, 10) && claims.Role != model.RoleAdmin {
		return model.AccountView{}, apierror.New("permission_denied", "not allowed to modify this account", "", http.StatusForbidden)
	}

	var violations []string
	if req.Email != nil && !isValidEmail(strings.TrimSpace(*req.Email)) {
		violations = append(violations, "email must be a valid address")
	}
	if req.Password != nil && len(*req.Password) < minPasswordLen {
		violations = append(violations, "password must be at least 6 characters")
	}
	if req.Name != nil && !isValidName(strings.TrimSpace(*req.Name)) {
		violations = append(violations, "name must be between 2 and 50 characters")
	}
	if req.Role != nil && !isValidRole(strings.TrimSpace(*req.Role)) {
		violations = append(violations, "role must be 'user' or 'admin'")
	}
	if len(violations) > 0 {
		return model.AccountView{}, apierror.Validation(violations)
	}

	patch := model.AccountPatch{
		IsActive: req.IsActive,
	}

	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		patch.Role = &role
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		existing, err := s.store.FindByEmail(ctx, email)
		if err == nil && existing.ID != id {
			return model.AccountView{}, errEmailExists()
		}
		if err != nil && !errors.Is(err, model.ErrAccountNotFound) {
			return model.AccountView{}, err
		}
		patch.Email = &email
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return model.AccountView{}, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		patch.PasswordHash = &hashed
	}

	updated, err := s.store.Update(ctx, id, patch)
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.AccountView{}, errAccountNotFound()
	}
	if errors.Is(err, model.ErrEmailTaken) {
		return model.AccountView{}, errEmailExists()
	}
	if err != nil {
		return model.AccountView{}, err
	}

	s.invalidate(ctx, id)
	slog.Info("account updated", "account_id", id, "actor", claims.Subject)
	return updated.View(), nil
}

// Delete permanently removes an account. Admin-only at the route level;
// an admin may not delete their own account through this operation.
func (s *AccountService) Delete(ctx context.Context, claims *model.Claims, id int64) error {
	if claims == nil {
		return apierror.New("unauthorized", "authentication required", "", http.StatusUnauthorized)
	}
	if claims.Subject == strconv.FormatInt(id, 10) {
		return apierror.New("self_delete_error", "cannot delete your own account", "", http.StatusBadRequest)
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, model.ErrAccountNotFound) {
		return errAccountNotFound()
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	slog.Info("account deleted", "account_id", id, "actor", claims.Subject)
	return nil
}

func (s *AccountService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		slog.Warn("account cache invalidation failed", "account_id", id, "error", err)
	}
}

func errEmailExists() *apierror.APIError {
	return apierror.New("email_exists", "email already in use", "", http.StatusConflict)
}

func errInvalidCredentials() *apierror.APIError {
	return apierror.New("invalid_credentials", "invalid email or password", "", http.StatusUnauthorized)
}

func errAccountNotFound() *apierror.APIError {
	return apierror.New("user_not_found", "account not found", "", http.StatusNotFound)
}
