package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnnaCarter465/taxpadi/access"
	"github.com/AnnaCarter465/taxpadi/database"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UserLookupMock struct {
	mock.Mock
}

func (o *UserLookupMock) FindUserByID(ctx context.Context, id string) (access.User, error) {
	args := o.Called(ctx, id)
	return args.Get(0).(access.User), args.Error(1)
}

func (o *UserLookupMock) FindUserByEmail(ctx context.Context, email string) (access.User, error) {
	args := o.Called(ctx, email)
	return args.Get(0).(access.User), args.Error(1)
}

var (
	adminUser      = access.User{ID: "1", Name: "Admin User", Email: "admin@taxpadi.com", Role: access.RoleAdmin}
	employeeUser   = access.User{ID: "2", Name: "Jane Doe", Email: "employee@taxpadi.com", Role: access.RoleEmployee}
	accountantUser = access.User{ID: "3", Name: "John Smith", Email: "accountant@taxpadi.com", Role: access.RoleAccountant}
)

func newAuthHandler(db UserLookup) *AuthHandler {
	return NewAuthHandler(validator.New(), db, access.NewResolver(access.DefaultTable()))
}

func TestLogin(t *testing.T) {
	type TC struct {
		name     string
		reqbody  interface{}
		mockSet  *MockSetting
		wantCode int
		want     *SessionResponse
		errresp  *ResponseMsg
	}

	tcs := []TC{
		{
			name:    "employee",
			reqbody: map[string]interface{}{"email": "employee@taxpadi.com"},
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "employee@taxpadi.com"},
				Returns: []interface{}{employeeUser, nil},
			},
			wantCode: http.StatusOK,
			want: &SessionResponse{
				User: employeeUser,
				Features: []FeatureResponse{
					{Feature: access.FeatureClassifier, Label: "Classifier"},
					{Feature: access.FeatureVAT, Label: "VAT Tracker"},
				},
				DefaultView: access.FeatureClassifier,
			},
		},
		{
			name:    "unknown email",
			reqbody: map[string]interface{}{"email": "nobody@taxpadi.com"},
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "nobody@taxpadi.com"},
				Returns: []interface{}{access.User{}, database.ErrNotFound},
			},
			wantCode: http.StatusUnauthorized,
			errresp:  &ResponseMsg{Message: "Unknown user"},
		},
		{
			name:     "not an email",
			reqbody:  map[string]interface{}{"email": "admin"},
			wantCode: http.StatusBadRequest,
			errresp:  &ResponseMsg{Message: "Bad request"},
		},
		{
			name:    "store failure",
			reqbody: map[string]interface{}{"email": "admin@taxpadi.com"},
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "admin@taxpadi.com"},
				Returns: []interface{}{access.User{}, errors.New("an error")},
			},
			wantCode: http.StatusInternalServerError,
			errresp:  &ResponseMsg{Message: "Internal server error"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dbmock := new(UserLookupMock)
			tc.mockSet.apply(&dbmock.Mock, "FindUserByEmail")

			h := newAuthHandler(dbmock)
			c, rec := jsonContext(http.MethodPost, "/login", tc.reqbody)

			assert.NoError(t, h.Login(c))
			assert.Equal(t, tc.wantCode, rec.Code)

			if tc.errresp != nil {
				var errresp ResponseMsg
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errresp))
				assert.Equal(t, *tc.errresp, errresp)
				return
			}

			var got SessionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, *tc.want, got)
		})
	}
}

func TestView(t *testing.T) {
	type TC struct {
		name     string
		user     access.User
		feature  string
		wantCode int
		want     ViewResponse
	}

	tcs := []TC{
		{
			name:     "allowed",
			user:     accountantUser,
			feature:  "reports",
			wantCode: http.StatusOK,
			want:     ViewResponse{Requested: access.FeatureReports, Feature: access.FeatureReports, Label: "Filing Reports"},
		},
		{
			name:     "employee asking for paye falls back",
			user:     employeeUser,
			feature:  "paye",
			wantCode: http.StatusOK,
			want:     ViewResponse{Requested: access.FeaturePAYE, Feature: access.FeatureClassifier, Label: "Classifier", Redirected: true},
		},
		{
			name:     "accountant asking for admin falls back",
			user:     accountantUser,
			feature:  "admin",
			wantCode: http.StatusOK,
			want:     ViewResponse{Requested: access.FeatureAdmin, Feature: access.FeatureClassifier, Label: "Classifier", Redirected: true},
		},
		{
			name:     "unknown view",
			user:     adminUser,
			feature:  "payroll",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			h := newAuthHandler(new(UserLookupMock))
			c, rec := jsonContext(http.MethodGet, "/views/"+tc.feature, nil)
			c.SetParamNames("feature")
			c.SetParamValues(tc.feature)
			c.Set(userKey, tc.user)

			assert.NoError(t, h.View(c))
			assert.Equal(t, tc.wantCode, rec.Code)

			if tc.wantCode != http.StatusOK {
				return
			}

			var got ViewResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	type TC struct {
		name     string
		header   string
		mockSet  *MockSetting
		wantCode int
	}

	tcs := []TC{
		{
			name:   "known user",
			header: "1",
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "1"},
				Returns: []interface{}{adminUser, nil},
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "missing header",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "unknown user",
			header: "99",
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "99"},
				Returns: []interface{}{access.User{}, database.ErrNotFound},
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "store failure",
			header: "1",
			mockSet: &MockSetting{
				Args:    []interface{}{mock.Anything, "1"},
				Returns: []interface{}{access.User{}, errors.New("an error")},
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dbmock := new(UserLookupMock)
			tc.mockSet.apply(&dbmock.Mock, "FindUserByID")

			h := newAuthHandler(dbmock)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(HeaderUserID, tc.header)
			}
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			next := func(c echo.Context) error {
				assert.Equal(t, adminUser, CurrentUser(c))
				return c.NoContent(http.StatusOK)
			}

			assert.NoError(t, h.Authenticate(next)(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestRequireFeature(t *testing.T) {
	type TC struct {
		user     access.User
		feature  access.Feature
		wantCode int
	}

	tcs := []TC{
		{user: adminUser, feature: access.FeatureAdmin, wantCode: http.StatusOK},
		{user: accountantUser, feature: access.FeatureReports, wantCode: http.StatusOK},
		{user: accountantUser, feature: access.FeatureAdmin, wantCode: http.StatusForbidden},
		{user: employeeUser, feature: access.FeatureVAT, wantCode: http.StatusOK},
		{user: employeeUser, feature: access.FeaturePAYE, wantCode: http.StatusForbidden},
		{user: access.User{}, feature: access.FeatureClassifier, wantCode: http.StatusForbidden},
	}

	for _, tc := range tcs {
		t.Run(string(tc.user.Role)+"/"+string(tc.feature), func(t *testing.T) {
			h := newAuthHandler(new(UserLookupMock))
			c, rec := jsonContext(http.MethodGet, "/", nil)
			c.Set(userKey, tc.user)

			next := func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}

			assert.NoError(t, h.RequireFeature(tc.feature)(next)(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}
