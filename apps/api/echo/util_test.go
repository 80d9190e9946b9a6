package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/device"
	"github.com/Apollox9/fusion-loom-sub002/core/notification"
	"github.com/Apollox9/fusion-loom-sub002/core/order"
	"github.com/Apollox9/fusion-loom-sub002/core/referral"
	"github.com/Apollox9/fusion-loom-sub002/core/session"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
	emailsvc "github.com/Apollox9/fusion-loom-sub002/services/email"
	dummydb "github.com/Apollox9/fusion-loom-sub002/storage/database/dummy"
)

type testApp struct {
	conf    *core.Config
	server  Server
	db      *dummydb.DB
	mailSvc *emailsvc.DummyService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	logger := core.NopLogger{}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestApp() failed: %v", err)
	}
	mailSvc := emailsvc.NewDummyService(conf)

	orderSvc := order.NewService(dummydb.NewOrderRepository(db))
	deviceSvc := device.NewService(dummydb.NewDeviceRepository(db), orderSvc, logger)
	sessionSvc := session.NewService(dummydb.NewSessionRepository(db))
	staffSvc := staff.NewService(dummydb.NewStaffRepository(db), mailSvc, conf, logger)
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db))
	referralSvc := referral.NewService(
		dummydb.NewReferralRepository(db), staffSvc, orderSvc, notifSvc, mailSvc, conf, logger)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	server := NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		DeviceSvc:      deviceSvc,
		SessionSvc:     sessionSvc,
		StaffSvc:       staffSvc,
		ReferralSvc:    referralSvc,
		Validate:       validate,
		Translator:     translator,
	})

	return &testApp{conf: conf, server: server, db: db, mailSvc: mailSvc}
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	headers  map[string]string
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	var body bytes.Buffer
	body.Write(tt.body)

	req := httptest.NewRequest(tt.method, tt.path, &body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range tt.headers {
		req.Header.Set(k, v)
	}
	if tt.token != "" {
		req.Header.Set("Authorization", "Bearer "+tt.token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) bool {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		t.Fatalf("jsonBytesEqual() failed: %v", err)
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		t.Fatalf("jsonBytesEqual() failed: %v", err)
	}
	return reflect.DeepEqual(j1, j2)
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	if !jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData) {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func getToken(t *testing.T, conf *core.Config, st staff.Staff) string {
	t.Helper()
	token, err := GenerateToken(conf, GetStaffClaims(conf, st))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}
