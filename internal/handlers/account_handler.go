package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wealth/internal/errors"
	"wealth/internal/models"
	"wealth/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// CreateAccountRequest represents the request payload for creating an account.
// Balance is decimal text ("100.00") so no precision is lost in transit.
type CreateAccountRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Type      string `json:"type" binding:"required,account_type"`
	Balance   string `json:"balance" binding:"required,decimal"`
	Currency  string `json:"currency" binding:"omitempty,iso4217"`
	IsDefault *bool  `json:"isDefault"`
}

// AccountResponse represents an account in the response
type AccountResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Name      string             `json:"name"`
	Type      models.AccountType `json:"type"`
	Balance   float64            `json:"balance"`
	Currency  string             `json:"currency"`
	IsDefault bool               `json:"isDefault"`
	Count     *CountResponse     `json:"_count,omitempty"`
}

// CountResponse carries relation counts on listed accounts.
type CountResponse struct {
	Transactions int64 `json:"transactions"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new account for the authenticated user. The first account is always the default.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} AccountResponse "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedOn(err, "Balance", "decimal") {
			respondWithError(c, apperrors.WithOperation(services.OpCreateAccount, apperrors.ErrInvalidBalance))
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), getIdentity(c), services.CreateAccountInput{
		Name:      req.Name,
		Type:      models.AccountType(req.Type),
		Balance:   req.Balance,
		Currency:  req.Currency,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), account.UserID, services.AuditCreateAccount, "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": account.Name, "type": account.Type, "isDefault": account.IsDefault})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts returns the caller's accounts.
// @Summary     List accounts
// @Description List the authenticated user's accounts, newest first, with transaction counts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  AccountResponse "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), getIdentity(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}
