package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/errs"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/handler"
	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	md "github.com/Astemirdum/inventory-loan-service/pkg/middleware"
	"github.com/Astemirdum/inventory-loan-service/pkg/validate"

	service_mocks "github.com/Astemirdum/inventory-loan-service/inventory/internal/handler/mocks"
)

type mocks struct {
	catalog *service_mocks.MockCatalogService
	loans   *service_mocks.MockLoanService
	stats   *service_mocks.MockStatsService
}

type response struct {
	expectedCode int
	// empty skips the body check
	expectedBody string
}

func newTestEcho(t *testing.T) (*echo.Echo, *handler.Handler, mocks) {
	t.Helper()
	c := gomock.NewController(t)
	m := mocks{
		catalog: service_mocks.NewMockCatalogService(c),
		loans:   service_mocks.NewMockLoanService(c),
		stats:   service_mocks.NewMockStatsService(c),
	}
	h := handler.New(m.catalog, m.loans, m.stats, zap.NewExample().Named("test"))
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return e, h, m
}

func serve(e *echo.Echo, method, target, body, userName string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, http.NoBody)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userName != "" {
		r.Header.Set(md.XUserNameHeader, userName)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func checkResponse(t *testing.T, want response, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want.expectedCode, w.Code)
	if want.expectedBody != "" {
		require.Equal(t, want.expectedBody, strings.Trim(w.Body.String(), "\n"))
	}
}

func mustDate(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	const body = `{"borrowerName":"Ann","borrowerPhone":"1","loanDate":"2026-10-19","dueDate":"2026-10-26","items":[{"itemId":3,"quantity":2}]}`
	wantReq := model.CreateLoanRequest{
		BorrowerName:  "Ann",
		BorrowerPhone: "1",
		LoanDate:      mustDate("2026-10-19"),
		DueDate:       mustDate("2026-10-26"),
		Items:         []model.LineRequest{{ItemID: 3, Quantity: 2}},
		UserName:      "alice",
	}
	itemID := int64(3)

	tests := []struct {
		name         string
		body         string
		userName     string
		mockBehavior func(m mocks)
		response     response
	}{
		{
			name:     "ok",
			body:     body,
			userName: "alice",
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().CreateLoan(gomock.Any(), wantReq).Return(model.Loan{
					ID:            10,
					BorrowerName:  "Ann",
					BorrowerPhone: "1",
					LoanDate:      mustDate("2026-10-19").Time,
					DueDate:       mustDate("2026-10-26").Time,
					Status:        model.StatusPending,
					UserName:      "alice",
					Items:         []model.LineItem{{ID: 1, LoanID: 10, ItemID: &itemID, Quantity: 2}},
				}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":10,"borrowerName":"Ann","borrowerPhone":"1","loanDate":"2026-10-19T00:00:00Z","dueDate":"2026-10-26T00:00:00Z","status":"PENDING","userName":"alice","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z","items":[{"id":1,"loanId":10,"itemId":3,"quantity":2}]}`,
			},
		},
		{
			name:     "err. insufficient stock",
			body:     body,
			userName: "alice",
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().CreateLoan(gomock.Any(), wantReq).
					Return(model.Loan{}, &errs.InsufficientStockError{Items: []errs.Shortage{{ItemID: 3, Requested: 2, Available: 1}}})
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"kind":"InsufficientStock","message":"insufficient stock: item 3 (requested 2, available 1)","items":[{"itemId":3,"requested":2,"available":1}]}`,
			},
		},
		{
			name:     "err. unknown item",
			body:     body,
			userName: "alice",
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().CreateLoan(gomock.Any(), wantReq).
					Return(model.Loan{}, errors.Wrapf(errs.ErrNotFound, "inventory item %d", 3))
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"kind":"NotFoundError","message":"inventory item 3: not found"}`,
			},
		},
		{
			name:         "err. no identity header",
			body:         body,
			mockBehavior: func(m mocks) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"X-User-Name header is required"}`,
			},
		},
		{
			name:         "err. no lines",
			body:         `{"borrowerName":"Ann","borrowerPhone":"1","loanDate":"2026-10-19","dueDate":"2026-10-26","items":[]}`,
			userName:     "alice",
			mockBehavior: func(m mocks) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
		{
			name:         "err. malformed date",
			body:         `{"borrowerName":"Ann","borrowerPhone":"1","loanDate":"19.10.2026","dueDate":"2026-10-26","items":[{"itemId":3,"quantity":2}]}`,
			userName:     "alice",
			mockBehavior: func(m mocks) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, h, m := newTestEcho(t)
			e.POST("/loans", h.CreateLoan, md.UserName)
			tt.mockBehavior(m)

			w := serve(e, http.MethodPost, "/loans", tt.body, tt.userName)
			checkResponse(t, tt.response, w)
		})
	}
}

func TestHandler_Transition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		target       string
		body         string
		mockBehavior func(m mocks)
		response     response
	}{
		{
			name:   "ok",
			target: "/loans/7/status",
			body:   `{"status":"ACTIVE"}`,
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().
					Transition(gomock.Any(), int64(7), model.TransitionRequest{Status: model.StatusActive, UserName: "op"}).
					Return(model.Loan{ID: 7, Status: model.StatusActive}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"borrowerName":"","borrowerPhone":"","loanDate":"0001-01-01T00:00:00Z","dueDate":"0001-01-01T00:00:00Z","status":"ACTIVE","userName":"","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z","items":null}`,
			},
		},
		{
			name:   "err. invalid transition",
			target: "/loans/7/status",
			body:   `{"status":"COMPLETED"}`,
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().Transition(gomock.Any(), int64(7), gomock.Any()).
					Return(model.Loan{}, &errs.InvalidTransitionError{Current: model.StatusPending, Target: model.StatusCompleted})
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"kind":"InvalidTransition","message":"invalid transition PENDING -> COMPLETED","current":"PENDING","target":"COMPLETED"}`,
			},
		},
		{
			name:   "err. concurrent modification",
			target: "/loans/7/status",
			body:   `{"status":"COMPLETED","writeOff":true}`,
			mockBehavior: func(m mocks) {
				m.loans.EXPECT().
					Transition(gomock.Any(), int64(7), model.TransitionRequest{Status: model.StatusCompleted, WriteOff: true, UserName: "op"}).
					Return(model.Loan{}, errs.ErrConcurrencyConflict)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"kind":"ConcurrencyConflict","message":"concurrent modification, re-read the loan and retry"}`,
			},
		},
		{
			name:         "err. bad id",
			target:       "/loans/abc/status",
			body:         `{"status":"ACTIVE"}`,
			mockBehavior: func(m mocks) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"kind":"ValidationError","message":"id: must be a positive integer"}`,
			},
		},
		{
			name:         "err. unknown status",
			target:       "/loans/7/status",
			body:         `{"status":"LOST"}`,
			mockBehavior: func(m mocks) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, h, m := newTestEcho(t)
			e.PATCH("/loans/:id/status", h.Transition, md.UserName)
			tt.mockBehavior(m)

			w := serve(e, http.MethodPatch, tt.target, tt.body, "op")
			checkResponse(t, tt.response, w)
		})
	}
}

func TestHandler_DeleteItem(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		mockBehavior func(m mocks)
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().DeleteItem(gomock.Any(), int64(5)).Return(nil)
			},
			response: response{expectedCode: http.StatusNoContent},
		},
		{
			name: "err. reserved",
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().DeleteItem(gomock.Any(), int64(5)).
					Return(errors.Wrapf(errs.ErrConflict, "inventory item %d has %d units reserved by open loans", 5, 2))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"kind":"Conflict","message":"inventory item 5 has 2 units reserved by open loans: conflict"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, h, m := newTestEcho(t)
			e.DELETE("/inventory/:id", h.DeleteItem, md.UserName)
			tt.mockBehavior(m)

			w := serve(e, http.MethodDelete, "/inventory/5", "", "alice")
			checkResponse(t, tt.response, w)
		})
	}
}

func TestHandler_ListItems(t *testing.T) {
	t.Parallel()
	e, h, m := newTestEcho(t)
	e.GET("/inventory", h.ListItems)
	m.catalog.EXPECT().
		ListItems(gomock.Any(), model.ItemFilter{Category: "av", Condition: model.ConditionGood, Search: "proj", Page: 2, Size: 5}).
		Return(model.ListItems{Paging: model.Paging{Page: 2, PageSize: 5, TotalElements: 6}, Items: []model.Item{}}, nil)

	w := serve(e, http.MethodGet, "/inventory?category=av&condition=GOOD&search=proj&page=2&size=5", "", "")
	checkResponse(t, response{
		expectedCode: http.StatusOK,
		expectedBody: `{"page":2,"pageSize":5,"totalElements":6,"items":[]}`,
	}, w)

	w = serve(e, http.MethodGet, "/inventory?page=first", "", "")
	checkResponse(t, response{expectedCode: http.StatusBadRequest}, w)
}

func TestHandler_Loans(t *testing.T) {
	t.Parallel()
	e, h, m := newTestEcho(t)
	e.GET("/loans", h.ListLoans)
	e.GET("/loans/:id", h.GetLoan)

	m.loans.EXPECT().
		ListLoans(gomock.Any(), model.LoanFilter{Status: model.StatusOverdue, Search: "ann", Page: 1, Size: 20}).
		Return(model.ListLoans{Paging: model.Paging{Page: 1, PageSize: 20}, Items: []model.Loan{}}, nil)
	w := serve(e, http.MethodGet, "/loans?status=OVERDUE&search=ann&page=1&size=20", "", "")
	checkResponse(t, response{
		expectedCode: http.StatusOK,
		expectedBody: `{"page":1,"pageSize":20,"totalElements":0,"items":[]}`,
	}, w)

	m.loans.EXPECT().GetLoan(gomock.Any(), int64(7)).
		Return(model.Loan{}, errors.Wrap(errs.ErrNotFound, "loan 7"))
	w = serve(e, http.MethodGet, "/loans/7", "", "")
	checkResponse(t, response{expectedCode: http.StatusNotFound}, w)

	w = serve(e, http.MethodGet, "/loans/-1", "", "")
	checkResponse(t, response{expectedCode: http.StatusBadRequest}, w)
}

func TestHandler_Stats(t *testing.T) {
	t.Parallel()
	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		e, h, m := newTestEcho(t)
		e.GET("/stats", h.Stats)
		m.stats.EXPECT().Stats(gomock.Any()).Return(model.Stats{
			Inventory: model.InventoryStats{
				TotalItems: 1, TotalOnHand: 10, TotalReserved: 6,
				ByCondition: []model.Count{{Key: "GOOD", Count: 1}},
				ByCategory:  []model.Count{{Key: "av", Count: 1}},
			},
			Loans: model.LoanStats{
				TotalLoans: 1, OverdueCount: 0,
				ByStatus: []model.Count{{Key: "PENDING", Count: 1}},
			},
		}, nil)

		w := serve(e, http.MethodGet, "/stats", "", "")
		checkResponse(t, response{
			expectedCode: http.StatusOK,
			expectedBody: `{"inventory":{"totalItems":1,"totalOnHand":10,"totalReserved":6,"byCondition":[{"key":"GOOD","count":1}],"byCategory":[{"key":"av","count":1}]},"loans":{"totalLoans":1,"overdueCount":0,"byStatus":[{"key":"PENDING","count":1}]}}`,
		}, w)
	})
	t.Run("err. internal", func(t *testing.T) {
		t.Parallel()
		e, h, m := newTestEcho(t)
		e.GET("/loans/stats", h.LoanStats)
		m.stats.EXPECT().LoanStats(gomock.Any()).Return(model.LoanStats{}, errors.New("db down"))

		w := serve(e, http.MethodGet, "/loans/stats", "", "")
		checkResponse(t, response{
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"kind":"InternalError","message":"db down"}`,
		}, w)
	})
}

func TestHandler_ScanOverdue(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	e, h, m := newTestEcho(t)
	e.POST("/loans/overdue/scan", h.ScanOverdue, md.UserName)
	m.loans.EXPECT().ScanOverdue(gomock.Any(), at).
		Return(model.ScanResult{At: at, Promoted: []int64{1, 3}, Skipped: 1}, nil)

	w := serve(e, http.MethodPost, "/loans/overdue/scan?at=2026-10-20T00:00:00Z", "", "op")
	checkResponse(t, response{
		expectedCode: http.StatusOK,
		expectedBody: `{"at":"2026-10-20T00:00:00Z","promoted":[1,3],"skipped":1}`,
	}, w)

	w = serve(e, http.MethodPost, "/loans/overdue/scan?at=yesterday", "", "op")
	checkResponse(t, response{expectedCode: http.StatusBadRequest}, w)
}
