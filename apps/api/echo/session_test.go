package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Apollox9/fusion-loom-sub002/core/session"
)

func seedTestSession(app *testApp) {
	now := time.Now().UTC()
	app.db.SeedOperator(session.Operator{
		ID: "op-1", FullName: "Neema Joseph", Email: "neema@example.com", IsActive: true, CreatedAt: now,
	})
	app.db.SeedSchool(session.School{ID: "sch-1", Name: "Mlimani Primary", CreatedAt: now})
	app.db.SeedSession(session.Session{
		ID: "sess-1", SchoolID: "sch-1", OperatorID: "op-1", ServicePasscode: "123456",
		Status: session.StatusConfirmed, CreatedAt: now, UpdatedAt: now,
	},
		session.Class{ID: "cls-1", SessionID: "sess-1", Name: "Class 4A", UpdatedAt: now},
		session.Class{ID: "cls-2", SessionID: "sess-1", Name: "Class 4B", UpdatedAt: now},
	)
	app.db.SeedStudent(session.Student{
		ID: "stu-1", ClassID: "cls-1", FullName: "Amani Hassan",
		DarkGarmentCount: 2, LightGarmentCount: 1, UpdatedAt: now,
	})
}

func TestSessionInit(t *testing.T) {
	app := newTestApp(t)
	seedTestSession(app)

	tests := []httpTest{
		{
			name: "unknown operator", method: http.MethodPost, path: "/v1/init-session",
			body:     []byte(`{"operator_id":"op-404","service_passcode":"123456"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error": "operator not found"}`),
		},
		{
			name: "wrong passcode", method: http.MethodPost, path: "/v1/init-session",
			body:     []byte(`{"operator_id":"op-1","service_passcode":"000000"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error": "session not found"}`),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/init-session",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("happy path", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/v1/init-session",
			body: []byte(`{"operator_id":"op-1","service_passcode":"123456"}`),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Message  string           `json:"message"`
			Operator session.Operator `json:"operator"`
			Session  session.Session  `json:"session"`
			School   session.School   `json:"school"`
			Classes  []session.Class  `json:"classes"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response failed: %v", err)
		}
		if resp.Message != "Session initialised" {
			t.Errorf("message = %q", resp.Message)
		}
		if resp.Session.ID != "sess-1" || resp.School.ID != "sch-1" || resp.Operator.ID != "op-1" {
			t.Errorf("unexpected working set: %s", rec.Body.String())
		}
		if len(resp.Classes) != 2 || resp.Classes[0].Name != "Class 4A" {
			t.Errorf("classes = %+v", resp.Classes)
		}
		if strings.Contains(rec.Body.String(), "123456") {
			t.Error("service passcode leaked into the response")
		}
	})
}

func TestSessionRefreshStudentData(t *testing.T) {
	app := newTestApp(t)
	seedTestSession(app)

	t.Run("happy path", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/v1/refresh-student-data",
			body: []byte(`{"id":"stu-1"}`),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Message string          `json:"message"`
			Student session.Student `json:"student"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response failed: %v", err)
		}
		if resp.Message != "Student data refreshed" || resp.Student.FullName != "Amani Hassan" {
			t.Errorf("unexpected response: %s", rec.Body.String())
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/v1/refresh-student-data",
			body:     []byte(`{"id":"stu-404"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error": "student not found"}`),
		}
		checkCodeAndData(t, tt, app.do(tt))
	})
}

func TestSessionUpdateStatus(t *testing.T) {
	app := newTestApp(t)
	seedTestSession(app)

	t.Run("invalid status enumerates allowed values", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/v1/update-session-status",
			body: []byte(`{"id":"sess-1","status":"BOGUS"}`),
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
		}
		for _, st := range session.Statuses {
			if !strings.Contains(rec.Body.String(), st) {
				t.Errorf("error message does not list %q: %s", st, rec.Body.String())
			}
		}
	})

	t.Run("unknown JSON key rejected", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/v1/update-session-status",
			body: []byte(`{"id":"sess-1","status":"QUEUED","school_id":"sch-override"}`),
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d; want 400; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodPost, path: "/v1/update-session-status",
			body:     []byte(`{"id":"sess-404","status":"QUEUED"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error": "session not found"}`),
		}
		checkCodeAndData(t, tt, app.do(tt))
	})

	for _, status := range session.Statuses {
		t.Run(fmt.Sprintf("status %s accepted", status), func(t *testing.T) {
			rec := app.do(httpTest{
				method: http.MethodPost, path: "/v1/update-session-status",
				body: []byte(fmt.Sprintf(`{"id":"sess-1","status":%q}`, status)),
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Message string          `json:"message"`
				Session session.Session `json:"session"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response failed: %v", err)
			}
			if resp.Message != "Session updated" || resp.Session.Status != status {
				t.Errorf("unexpected response: %s", rec.Body.String())
			}
		})
	}

	t.Run("sparse update leaves other fields alone", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/v1/update-session-status",
			body: []byte(`{"id":"sess-1","total_students_served":42}`),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Session session.Session `json:"session"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response failed: %v", err)
		}
		if resp.Session.TotalStudentsServed != 42 {
			t.Errorf("total_students_served = %d; want 42", resp.Session.TotalStudentsServed)
		}
		if resp.Session.Status == "" {
			t.Error("sparse update cleared status")
		}
	})
}

func TestSessionUpdateClass(t *testing.T) {
	app := newTestApp(t)
	seedTestSession(app)

	rec := app.do(httpTest{
		method: http.MethodPost, path: "/v1/update-class-status",
		body: []byte(`{"id":"cls-1","is_attended":true,"total_students_served_in_class":17}`),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string        `json:"message"`
		Class   session.Class `json:"class"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if resp.Message != "Class updated" {
		t.Errorf("message = %q", resp.Message)
	}
	if !resp.Class.IsAttended || resp.Class.TotalStudentsServedInClass != 17 {
		t.Errorf("unexpected class: %+v", resp.Class)
	}

	tt := httpTest{
		method: http.MethodPost, path: "/v1/update-class-status",
		body:     []byte(`{"id":"cls-404","is_attended":true}`),
		wantCode: http.StatusNotFound,
		wantData: []byte(`{"error": "class not found"}`),
	}
	checkCodeAndData(t, tt, app.do(tt))
}

func TestSessionUpdateStudent(t *testing.T) {
	app := newTestApp(t)
	seedTestSession(app)

	rec := app.do(httpTest{
		method: http.MethodPost, path: "/v1/update-student-status",
		body: []byte(`{"id":"stu-1","printed_dark_garment_count":2,"dark_garments_printed":true}`),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string          `json:"message"`
		Student session.Student `json:"student"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if resp.Message != "Student updated" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Student.PrintedDarkGarmentCount != 2 || !resp.Student.DarkGarmentsPrinted {
		t.Errorf("unexpected student: %+v", resp.Student)
	}
	if resp.Student.LightGarmentCount != 1 {
		t.Errorf("sparse update clobbered light_garment_count: %d", resp.Student.LightGarmentCount)
	}

	t.Run("unknown JSON key rejected", func(t *testing.T) {
		rec := app.do(httpTest{
			method: http.MethodPost, path: "/v1/update-student-status",
			body: []byte(`{"id":"stu-1","class_id":"cls-override"}`),
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d; want 400; body = %s", rec.Code, rec.Body.String())
		}
	})
}
