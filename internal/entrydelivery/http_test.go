package entrydelivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("entry_kind", ValidEntryKind); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

type eqFilterMatcher struct {
	want domain.EntryFilter
}

func (e eqFilterMatcher) Matches(x interface{}) bool {
	f, ok := x.(domain.EntryFilter)
	if !ok {
		return false
	}

	return cmp.Equal(e.want, f)
}

func (e eqFilterMatcher) String() string {
	return fmt.Sprintf("matches filter %+v", e.want)
}

func EqFilter(want domain.EntryFilter) gomock.Matcher {
	return eqFilterMatcher{want}
}

type pageBody struct {
	Entries  []EntryDTO `json:"entries"`
	Total    int64      `json:"total"`
	Page     int32      `json:"page"`
	PageSize int32      `json:"page_size"`
}

func TestList(t *testing.T) {
	ownerID := uuid.New()
	account := helpers.RandomAccount(ownerID)

	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	entries := []domain.Entry{
		helpers.RandomEntry(account.ID, domain.KindWithdraw),
		helpers.RandomEntry(account.ID, domain.KindDeposit),
	}

	page := domain.EntryPage{Entries: entries, Total: 7, Page: 2, PageSize: 2}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	withdraw := domain.KindWithdraw

	auth := func(userID uuid.UUID) func(r *http.Request) error {
		return func(r *http.Request) error {
			return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, userID, time.Minute)
		}
	}

	expectGet := func(entryService *MockService) {
		entryService.EXPECT().
			Get(gomock.Any(), gomock.Eq(account.ID)).
			Times(1).
			Return(account, nil)
	}

	testCases := []struct {
		name           string
		query          string
		setupAuth      func(r *http.Request) error
		buildStubs     func(entryService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:      "Defaults",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)
				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Eq(account.ID), EqFilter(domain.EntryFilter{})).
					Times(1).
					Return(page, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:      "Filtered",
			query:     "?from=2024-01-01T00:00:00Z&to=2024-02-01T00:00:00Z&type=withdraw&page_id=2&page_size=2",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)

				want := domain.EntryFilter{From: &from, To: &to, Kind: &withdraw, Page: 2, PageSize: 2}

				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Eq(account.ID), EqFilter(want)).
					Times(1).
					Return(page, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:      "InvalidType",
			query:     "?type=Refund",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)
				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Type is not a known transaction type",
		},
		{
			name:      "InvalidFrom",
			query:     "?from=yesterday",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)
				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "From must be an RFC3339 time",
		},
		{
			name:      "InvalidTimeRange",
			query:     "?from=2024-02-01T00:00:00Z&to=2024-01-01T00:00:00Z",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)
				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Eq(account.ID), gomock.Any()).
					Times(1).
					Return(domain.EntryPage{}, domain.ErrInvalidTimeRange)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidTimeRange.Error(),
		},
		{
			name:      "OwnerMismatch",
			setupAuth: auth(uuid.New()),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)
				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrAccountOwnerMismatch.Error(),
		},
		{
			name:      "AccountNotFound",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				entryService.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:      "InternalServerError",
			setupAuth: auth(ownerID),
			buildStubs: func(entryService *MockService) {
				expectGet(entryService)
				entryService.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.EntryPage{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			entryService := NewMockService(ctrl)
			tc.buildStubs(entryService)

			entryHandler := NewHandler(entryService)

			server := gin.New()
			server.GET("/accounts/:id/transactions", middleware.AuthMiddleware(tokenMaker), entryHandler.List)

			url := "/accounts/" + account.ID.String() + "/transactions" + tc.query

			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(req); err != nil {
				t.Fatalf("tc.setupAuth(%+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &pageBody{}}
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			want := &pageBody{
				Entries:  NewEntryDTOs(entries),
				Total:    page.Total,
				Page:     page.Page,
				PageSize: page.PageSize,
			}

			if diff := cmp.Diff(want, res.Data); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	ownerID := uuid.New()
	account := helpers.RandomAccount(ownerID)
	entry := helpers.RandomEntry(account.ID, domain.KindTransferIn)
	entry.RelatedAccountID = uuid.NullUUID{UUID: uuid.New(), Valid: true}

	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	testCases := []struct {
		name           string
		entryID        string
		buildStubs     func(entryService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:    "OK",
			entryID: entry.ID.String(),
			buildStubs: func(entryService *MockService) {
				entryService.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				entryService.EXPECT().
					GetTransaction(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(entry.ID)).
					Times(1).
					Return(entry, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "InvalidEntryID",
			entryID: "7",
			buildStubs: func(entryService *MockService) {
				entryService.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				entryService.EXPECT().
					GetTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "EntryID must be a valid UUID",
		},
		{
			name:    "EntryNotFound",
			entryID: entry.ID.String(),
			buildStubs: func(entryService *MockService) {
				entryService.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				entryService.EXPECT().
					GetTransaction(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(entry.ID)).
					Times(1).
					Return(domain.Entry{}, domain.ErrEntryNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrEntryNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			entryService := NewMockService(ctrl)
			tc.buildStubs(entryService)

			entryHandler := NewHandler(entryService)

			server := gin.New()
			server.GET("/accounts/:id/transactions/:entry_id", middleware.AuthMiddleware(tokenMaker), entryHandler.Get)

			url := "/accounts/" + account.ID.String() + "/transactions/" + tc.entryID

			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, ownerID, time.Minute)
			if err != nil {
				t.Fatalf("middleware.AddAuthorization() returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			type entryBody struct {
				Entry EntryDTO `json:"entry"`
			}

			res := web.Response{Data: &entryBody{}}
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			want := &entryBody{Entry: NewEntryDTO(entry)}
			if diff := cmp.Diff(want, res.Data); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}

			if want.Entry.RelatedAccountID == nil || *want.Entry.RelatedAccountID != entry.RelatedAccountID.UUID {
				t.Errorf("RelatedAccountID = %v, want %v", want.Entry.RelatedAccountID, entry.RelatedAccountID.UUID)
			}
		})
	}
}
