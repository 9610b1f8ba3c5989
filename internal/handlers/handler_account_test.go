package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/SscSPs/smb_books_app/internal/handlers"
	"github.com/SscSPs/smb_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// handlerSuite wires the real auth middleware and company routes over mocked services.
type handlerSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockLedgerService  *MockLedgerService
	mockOrderService   *MockOrderService
	jwtSecret          string
	companyID          string
	userID             string
}

// generateTestToken creates a signed JWT for testing.
func (suite *handlerSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "smb-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockAccountService = new(MockAccountService)
	suite.mockLedgerService = new(MockLedgerService)
	suite.mockOrderService = new(MockOrderService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterCompanyRoutes(v1, &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
		Ledger:  suite.mockLedgerService,
		Order:   suite.mockOrderService,
	})
}

// do sends an authenticated request to a company-scoped path.
func (suite *handlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	url := fmt.Sprintf("/api/v1/companies/%s%s", suite.companyID, path)
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *handlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), "Failed to unmarshal response body")
	return body
}

type AccountHandlerTestSuite struct {
	handlerSuite
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	parentID := uuid.NewString()
	created := &domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		ParentID:      parentID,
		Code:          "100101",
		Name:          "Petty Cash",
		Type:          domain.Asset,
		NormalBalance: domain.DebitBalance,
		Path:          "1001/100101",
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.companyID,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Code == "100101" && r.ParentID != nil && *r.ParentID == parentID
		}),
		suite.userID,
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/accounts", gin.H{
		"code": "100101", "name": "Petty Cash", "type": "Asset", "parentID": parentID,
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1001/100101", resp.Path)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/accounts", gin.H{"code": "9", "name": "X", "type": "Bogus"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_Forbidden() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccount", mock.Anything, suite.companyID, accountID, suite.userID).
		Return(nil, fmt.Errorf("authorize: %w", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccount", mock.Anything, suite.companyID, accountID, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_InUse() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, suite.companyID, accountID, suite.userID).
		Return(apperrors.NewValidationError("accountID", "account has ledger lines")).Once()

	w := suite.do(http.MethodDelete, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("accountID", suite.decode(w)["details"].(map[string]any)["field"])
}

func (suite *AccountHandlerTestSuite) TestSeedAccounts() {
	suite.mockAccountService.On("SeedCoreAccounts", mock.Anything, suite.companyID, suite.userID).Return(3, nil).Once()

	w := suite.do(http.MethodPost, "/accounts/seed", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.EqualValues(3, suite.decode(w)["created"])
}

func (suite *AccountHandlerTestSuite) TestAccountBalance_AsOf() {
	accountID := uuid.NewString()
	suite.mockLedgerService.On("ComputeAccountBalance", mock.Anything, suite.companyID, accountID,
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Format("2006-01-02") == "2026-03-31" }),
		suite.userID,
	).Return(&domain.AccountBalance{AccountID: accountID, Balance: decimal.NewFromInt(250)}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID+"/balance?asOf=2026-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("250", suite.decode(w)["balance"])
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestPostJournal_AlreadyPosted() {
	journalID := uuid.NewString()
	suite.mockLedgerService.On("PostEntry", mock.Anything, suite.companyID, journalID, suite.userID).
		Return(nil, &apperrors.AlreadyPostedError{Resource: "journal", ID: journalID, Status: "posted"}).Once()

	w := suite.do(http.MethodPost, "/journals/"+journalID+"/post", nil)

	suite.Equal(http.StatusConflict, w.Code)
	details, ok := suite.decode(w)["details"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal(journalID, details["id"])
}

func (suite *AccountHandlerTestSuite) TestCreateJournal_Imbalanced() {
	suite.mockLedgerService.On("CreateEntry", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateJournalRequest"), suite.userID).
		Return(nil, &apperrors.ImbalanceError{TotalDebit: decimal.NewFromInt(100), TotalCredit: decimal.NewFromInt(90)}).Once()

	w := suite.do(http.MethodPost, "/journals", gin.H{
		"date": "2026-01-15T00:00:00Z",
		"lines": []gin.H{
			{"accountID": uuid.NewString(), "debit": 100},
			{"accountID": uuid.NewString(), "credit": 90},
		},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	details := suite.decode(w)["details"].(map[string]any)
	suite.Equal("10", details["difference"])
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+suite.companyID+"/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts")
}

func (suite *AccountHandlerTestSuite) TestWrongSigningKey() {
	good := suite.jwtSecret
	suite.jwtSecret = "another-secret-entirely"
	token := suite.generateTestToken(suite.userID)
	suite.jwtSecret = good

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+suite.companyID+"/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
