package utils_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		data       interface{}
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "Success response",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "Success"},
			wantStatus: http.StatusOK,
			wantBody: map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"message": "Success"},
			},
		},
		{
			name:       "Error status but with data",
			statusCode: http.StatusBadRequest,
			data:       map[string]string{"reason": "Bad input"},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]interface{}{
				"success": false,
				"data":    map[string]interface{}{"reason": "Bad input"},
			},
		},
		{
			name:       "Nil data",
			statusCode: http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody: map[string]interface{}{
				"success": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a response recorder
			rr := httptest.NewRecorder()

			// Call the function being tested
			utils.JSON(rr, tt.statusCode, tt.data)

			// Check status code
			if status := rr.Code; status != tt.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.wantStatus)
			}

			// Check content type
			if ctype := rr.Header().Get("Content-Type"); ctype != "application/json" {
				t.Errorf("handler returned wrong content type: got %v want application/json", ctype)
			}

			// Parse the response body
			var response map[string]interface{}
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("Could not parse response body: %v", err)
			}

			// Check the body content
			if !reflect.DeepEqual(response, tt.wantBody) {
				t.Errorf("handler returned unexpected body: got %v want %v", response, tt.wantBody)
			}
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		code       string
		message    string
		details    map[string]string
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "Basic error",
			statusCode: http.StatusBadRequest,
			code:       "invalid_input",
			message:    "Invalid input",
			details:    nil,
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]interface{}{
				"success": false,
				"error": map[string]interface{}{
					"code":    "invalid_input",
					"message": "Invalid input",
				},
			},
		},
		{
			name:       "Error with details",
			statusCode: http.StatusBadRequest,
			code:       "validation_error",
			message:    "Validation failed",
			details:    map[string]string{"email": "Invalid email format"},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]interface{}{
				"success": false,
				"error": map[string]interface{}{
					"code":    "validation_error",
					"message": "Validation failed",
					"details": map[string]interface{}{
						"email": "Invalid email format",
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a response recorder
			rr := httptest.NewRecorder()

			// Call the function being tested
			utils.Error(rr, tt.statusCode, tt.code, tt.message, tt.details)

			// Check status code
			if status := rr.Code; status != tt.wantStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.wantStatus)
			}

			// Check content type
			if ctype := rr.Header().Get("Content-Type"); ctype != "application/json" {
				t.Errorf("handler returned wrong content type: got %v want application/json", ctype)
			}

			// Parse the response body
			var response map[string]interface{}
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("Could not parse response body: %v", err)
			}

			// Check the body content
			if !reflect.DeepEqual(response, tt.wantBody) {
				t.Errorf("handler returned unexpected body: got %v want %v", response, tt.wantBody)
			}
		})
	}
}

func TestList(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.List(rr, []string{"v2", "v3"}, 2)

	if rr.Code != http.StatusOK {
		t.Errorf("List() status = %v, want %v", rr.Code, http.StatusOK)
	}

	var response utils.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse response body: %v", err)
	}
	if response.Meta == nil || response.Meta.Count != 2 {
		t.Errorf("List() meta = %+v, want count 2", response.Meta)
	}
}

func TestErrorFromAppErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *utils.AppError
		wantStatus int
		wantCode   string
	}{
		{name: "Forbidden", err: utils.NewForbiddenError(""), wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "Validation with field", err: utils.NewValidationError("name", "This field is required"), wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "Undo expired", err: utils.NewUndoExpiredError(), wantStatus: http.StatusGone, wantCode: "undo_expired"},
		{name: "Not found", err: utils.NewNotFoundError("Card", 7), wantStatus: http.StatusNotFound, wantCode: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			utils.ErrorFromAppError(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", rr.Code, tt.wantStatus)
			}

			var response utils.Response
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("Could not parse response body: %v", err)
			}
			if response.Error == nil || response.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %v", response.Error, tt.wantCode)
			}
			if tt.err.Field != "" && response.Error.Details[tt.err.Field] != tt.err.Message {
				t.Errorf("details = %v, want %v for %v", response.Error.Details, tt.err.Message, tt.err.Field)
			}
		})
	}
}

func requestWithID(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/timeline/"+value, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "42", want: 42},
		{value: "0", wantErr: true},
		{value: "-3", wantErr: true},
		{value: "card__12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := utils.ParseIDParam(requestWithID(tt.value), "id")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDParam() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseIDParam() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/card/1/timelines?archived=true&start=2016-01-01&bad=soon", nil)

	if !utils.QueryBool(req, "archived", false) {
		t.Error("QueryBool(archived) = false, want true")
	}
	if utils.QueryBool(req, "missing", false) {
		t.Error("QueryBool(missing) = true, want default false")
	}

	start, err := utils.QueryTime(req, "start")
	if err != nil || start == nil || start.Year() != 2016 {
		t.Errorf("QueryTime(start) = %v, %v", start, err)
	}

	missing, err := utils.QueryTime(req, "end")
	if err != nil || missing != nil {
		t.Errorf("QueryTime(end) = %v, %v, want nil, nil", missing, err)
	}

	if _, err := utils.QueryTime(req, "bad"); !utils.IsValidationError(err) {
		t.Errorf("QueryTime(bad) error = %v, want validation error", err)
	}
}
