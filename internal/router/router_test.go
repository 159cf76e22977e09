package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/handler"
	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/examduty/dutybook-backend/internal/testfixtures"
	"github.com/examduty/dutybook-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const adminPassword = "adminpass"

type fakeFeed struct {
	messages chan string
	err      error
}

func (f *fakeFeed) Subscribe(context.Context) (<-chan string, func() error, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.messages, func() error { return nil }, nil
}

type harness struct {
	env    *testfixtures.Env
	feed   *fakeFeed
	health error
	router *gin.Engine
}

func newHarness(t *testing.T, tune ...func(*config.Config)) *harness {
	t.Helper()
	validator.Setup()

	env := testfixtures.NewEnv()
	env.Config.UploadDir = t.TempDir()
	for _, fn := range tune {
		fn(env.Config)
	}

	h := &harness{env: env, feed: &fakeFeed{messages: make(chan string)}}
	log := zerolog.Nop()
	handlers := &Handlers{
		Auth:    handler.NewAuthHandler(env.Faculty),
		Faculty: handler.NewFacultyHandler(env.Faculty, env.Bookings),
		Admin:   handler.NewAdminHandler(env.Faculty, env.Catalog, env.Bookings),
		WS:      handler.NewWSHandler(h.feed, log, nil),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"postgres": func(context.Context) error { return h.health },
		}, log),
	}
	h.router = SetupRouter(env.Config, env.Auth, handlers, testfixtures.NewCounter(), log)

	env.State.SeedFaculty(model.Faculty{
		FacultyID:    "ADM1",
		Name:         "Head of CSE",
		Designation:  model.DesignationHOD,
		Branch:       "CSE",
		PasswordHash: testfixtures.HashPassword(adminPassword),
	})
	return h
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) doForm(method, path, token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if image != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="avatar.png"`)
		hdr.Set("Content-Type", "image/png")
		part, _ := mw.CreatePart(hdr)
		_, _ = part.Write(image)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	token, err := h.env.Auth.GenerateToken("ADM1", true)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code response.ErrCode) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	var eb response.ErrorBody
	decode(t, w, &eb)
	if eb.Code != code || eb.Message != response.GetMessage(code) {
		t.Fatalf("expected %s, got %+v", code, eb)
	}
}

func registration(id string) map[string]string {
	return map[string]string{
		"name":            "Faculty " + id,
		"facultyId":       id,
		"email":           strings.ToLower(id) + "@college.test",
		"phone":           "9000000000",
		"designation":     "Assistant Professor",
		"branch":          "CSE",
		"password":        "secret123",
		"confirmPassword": "secret123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	w := h.doForm(http.MethodPost, "/register", "", registration("F1"), []byte("png"))
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(response.HeaderRequestID) == "" {
		t.Error("missing request ID header")
	}
	var reg struct {
		Message  string  `json:"message"`
		ImageURL *string `json:"imageUrl"`
	}
	decode(t, w, &reg)
	if reg.Message != "Registration Successful!" || reg.ImageURL == nil || !h.env.Images.Has(*reg.ImageURL) {
		t.Fatalf("unexpected register body %+v", reg)
	}

	w = h.do(http.MethodPost, "/login", "", gin.H{"facultyId": "F1", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("login response leaks password data: %s", w.Body.String())
	}
	var login struct {
		Message string        `json:"message"`
		Token   string        `json:"token"`
		Faculty model.Faculty `json:"faculty"`
	}
	decode(t, w, &login)
	if login.Message != "Login Successful!" || login.Faculty.FacultyID != "F1" {
		t.Fatalf("unexpected login body %+v", login)
	}
	claims, err := h.env.Auth.ValidateToken(login.Token)
	if err != nil || claims.FacultyID != "F1" || claims.IsAdmin() {
		t.Fatalf("unexpected claims %+v (%v)", claims, err)
	}

	w = h.do(http.MethodPost, "/login", "", gin.H{"facultyId": "F1", "password": "wrong"})
	expectError(t, w, http.StatusBadRequest, response.ErrInvalidCredentials)

	w = h.do(http.MethodPost, "/login", "", gin.H{"facultyId": "nobody", "password": "secret123"})
	expectError(t, w, http.StatusBadRequest, response.ErrInvalidCredentials)
}

func TestRegisterRejections(t *testing.T) {
	h := newHarness(t)
	if w := h.doForm(http.MethodPost, "/register", "", registration("F1"), nil); w.Code != http.StatusCreated {
		t.Fatalf("seed register: %d %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name   string
		mutate func(map[string]string)
		code   response.ErrCode
	}{
		{"missing field", func(f map[string]string) { delete(f, "phone") }, response.ErrValidation},
		{"blank field", func(f map[string]string) { f["branch"] = "   " }, response.ErrValidation},
		{"unknown designation", func(f map[string]string) { f["designation"] = "Dean" }, response.ErrInvalidDesignation},
		{"oversized faculty ID", func(f map[string]string) { f["facultyId"] = strings.Repeat("F", 65) }, response.ErrInvalidPayload},
		{"password past bcrypt limit", func(f map[string]string) {
			f["password"] = strings.Repeat("p", 73)
			f["confirmPassword"] = f["password"]
		}, response.ErrInvalidPayload},
		{"password mismatch", func(f map[string]string) { f["confirmPassword"] = "other" }, response.ErrPasswordMismatch},
		{"email taken", func(f map[string]string) { f["email"] = "f1@college.test" }, response.ErrEmailTaken},
		{"faculty ID taken", func(f map[string]string) { f["facultyId"] = "F1"; f["email"] = "new@college.test" }, response.ErrFacultyIDTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := registration("F2")
			tt.mutate(fields)
			expectError(t, h.doForm(http.MethodPost, "/register", "", fields, nil), http.StatusBadRequest, tt.code)
		})
	}
	if h.env.State.Faculty("F2") != nil {
		t.Error("rejected registration must not create an account")
	}
}

func TestAdminLogin(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		body gin.H
		code response.ErrCode
	}{
		{"missing secret", gin.H{"adminId": "ADM1", "password": adminPassword}, response.ErrInvalidSecretKey},
		{"wrong secret", gin.H{"adminId": "ADM1", "password": adminPassword, "secretKey": "nope"}, response.ErrInvalidSecretKey},
		{"wrong secret without admin id", gin.H{"password": adminPassword, "secretKey": "nope"}, response.ErrInvalidSecretKey},
		{"wrong secret without password", gin.H{"adminId": "ADM1", "secretKey": "nope"}, response.ErrInvalidSecretKey},
		{"wrong secret with empty body", gin.H{}, response.ErrInvalidSecretKey},
		{"valid secret without admin id", gin.H{"password": adminPassword, "secretKey": testfixtures.AdminSecret}, response.ErrValidation},
		{"wrong password", gin.H{"adminId": "ADM1", "password": "nope", "secretKey": testfixtures.AdminSecret}, response.ErrInvalidAdminCredentials},
		{"unknown admin", gin.H{"adminId": "X", "password": adminPassword, "secretKey": testfixtures.AdminSecret}, response.ErrInvalidAdminCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, h.do(http.MethodPost, "/admin/login", "", tt.body), http.StatusBadRequest, tt.code)
		})
	}

	w := h.do(http.MethodPost, "/admin/login", "", gin.H{
		"adminId": "ADM1", "password": adminPassword, "secretKey": testfixtures.AdminSecret,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	decode(t, w, &body)
	if body.Message != "Admin Login Successful!" {
		t.Errorf("unexpected message %q", body.Message)
	}
	if w := h.do(http.MethodGet, "/admin/profile", body.Token, nil); w.Code != http.StatusOK {
		t.Fatalf("admin token rejected: %d %s", w.Code, w.Body.String())
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	h := newHarness(t)
	facultyToken, _ := h.env.Auth.GenerateToken("ADM1", false)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/admin/dashboard"},
		{http.MethodGet, "/admin/faculty-list"},
		{http.MethodGet, "/admin/profile"},
		{http.MethodPost, "/admin/add-date"},
		{http.MethodPost, "/admin/reset-dates"},
		{http.MethodGet, "/admin/available-dates"},
		{http.MethodGet, "/admin/date-history"},
		{http.MethodGet, "/admin/booking-log"},
	}
	for _, p := range paths {
		t.Run(p.path, func(t *testing.T) {
			expectError(t, h.do(p.method, p.path, "", nil), http.StatusUnauthorized, response.ErrTokenRequired)
			expectError(t, h.do(p.method, p.path, facultyToken, nil), http.StatusForbidden, response.ErrAdminAccessOnly)
		})
	}
}

func TestBookRoom(t *testing.T) {
	h := newHarness(t)
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F1", Name: "Asha", Branch: "CSE"})

	book := gin.H{"facultyId": "F1", "date": "2025-03-10", "timeSlot": "morning", "dutyType": "Exam", "year": 2}
	w := h.do(http.MethodPost, "/book-room", "", book)
	if w.Code != http.StatusOK {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Message  string          `json:"message"`
		Duties   model.Duties    `json:"duties"`
		Bookings []model.Booking `json:"bookings"`
	}
	decode(t, w, &body)
	if body.Message != "Booking successful!" || body.Duties[model.DutyExam] != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
	if len(body.Bookings) != 1 || body.Bookings[0].TimeSlot != model.TimeSlotMorning || body.Bookings[0].DutyType != "Exam" {
		t.Fatalf("unexpected bookings %+v", body.Bookings)
	}

	expectError(t, h.do(http.MethodPost, "/book-room", "", book), http.StatusBadRequest, response.ErrSlotAlreadyBooked)

	tests := []struct {
		name   string
		body   gin.H
		status int
		code   response.ErrCode
	}{
		{"unknown faculty", gin.H{"facultyId": "F9", "date": "2025-03-10", "timeSlot": "Morning", "dutyType": "exam"}, http.StatusNotFound, response.ErrFacultyNotFound},
		{"missing date", gin.H{"facultyId": "F1", "timeSlot": "Morning", "dutyType": "exam"}, http.StatusBadRequest, response.ErrValidation},
		{"bad slot", gin.H{"facultyId": "F1", "date": "2025-03-11", "timeSlot": "Evening", "dutyType": "exam"}, http.StatusBadRequest, response.ErrInvalidTimeSlot},
		{"bad duty", gin.H{"facultyId": "F1", "date": "2025-03-11", "timeSlot": "Morning", "dutyType": "lunch"}, http.StatusBadRequest, response.ErrInvalidDutyType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, h.do(http.MethodPost, "/book-room", "", tt.body), tt.status, tt.code)
		})
	}

	if got := h.env.State.Faculty("F1").Duties[model.DutyExam]; got != 1 {
		t.Errorf("rejected bookings changed the counter: %d", got)
	}
}

func TestFacultyProfile(t *testing.T) {
	h := newHarness(t)
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F1", Name: "Asha", Branch: "CSE"})

	w := h.do(http.MethodGet, "/faculty-profile/F1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: %d %s", w.Code, w.Body.String())
	}
	var f model.Faculty
	decode(t, w, &f)
	if f.FacultyID != "F1" || f.Name != "Asha" {
		t.Fatalf("unexpected profile %+v", f)
	}

	expectError(t, h.do(http.MethodGet, "/faculty-profile/F9", "", nil), http.StatusNotFound, response.ErrFacultyNotFound)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F1", Name: "Asha", Branch: "CSE"})
	token, _ := h.env.Auth.GenerateToken("F1", false)

	fields := map[string]string{
		"name":        "Asha K",
		"email":       "asha@college.test",
		"phone":       "9111111111",
		"designation": "Associate Professor",
		"branch":      "ECE",
	}

	expectError(t, h.doForm(http.MethodPut, "/update-profile", "", fields, nil), http.StatusUnauthorized, response.ErrTokenRequired)

	w := h.doForm(http.MethodPut, "/update-profile", token, fields, []byte("new-png"))
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var body struct {
		Message string        `json:"message"`
		Faculty model.Faculty `json:"faculty"`
	}
	decode(t, w, &body)
	if body.Message != "Profile updated successfully!" || body.Faculty.Name != "Asha K" || body.Faculty.Branch != "ECE" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Faculty.ImageURL == nil || !h.env.Images.Has(*body.Faculty.ImageURL) {
		t.Fatalf("expected new image, got %v", body.Faculty.ImageURL)
	}

	delete(fields, "phone")
	expectError(t, h.doForm(http.MethodPut, "/update-profile", token, fields, nil), http.StatusBadRequest, response.ErrValidation)

	gone, _ := h.env.Auth.GenerateToken("F9", false)
	expectError(t, h.doForm(http.MethodPut, "/update-profile", gone, fields, nil), http.StatusNotFound, response.ErrFacultyNotFound)
}

func TestOversizedDateRejected(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F1", Branch: "CSE"})
	long := strings.Repeat("9", 50)

	expectError(t, h.do(http.MethodPost, "/admin/add-date", token, gin.H{"date": long, "year": 2}),
		http.StatusBadRequest, response.ErrInvalidPayload)
	expectError(t, h.do(http.MethodPost, "/book-room", "", gin.H{
		"facultyId": "F1", "date": long, "timeSlot": "Morning", "dutyType": "exam",
	}), http.StatusBadRequest, response.ErrInvalidPayload)

	if f := h.env.State.Faculty("F1"); len(f.Bookings) != 0 {
		t.Errorf("rejected booking must not be stored, got %+v", f.Bookings)
	}
	w := h.do(http.MethodGet, "/admin/available-dates", token, nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("rejected date must not be stored, got %s", w.Body.String())
	}
}

func TestAdminCatalog(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F1", Branch: "CSE"})

	expectError(t, h.do(http.MethodPost, "/admin/add-date", token, gin.H{"date": "2025-03-10"}),
		http.StatusBadRequest, response.ErrMissingRequired)

	w := h.do(http.MethodPost, "/admin/add-date", token, gin.H{"date": "2025-03-10", "year": 2})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Date added successfully!") {
		t.Fatalf("add date: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodGet, "/admin/available-dates", token, nil)
	var dates []model.AvailableDate
	decode(t, w, &dates)
	if len(dates) != 1 || dates[0].Date != "2025-03-10" || dates[0].Year != 2 {
		t.Fatalf("unexpected dates %+v", dates)
	}

	if w := h.do(http.MethodPost, "/book-room", "", gin.H{
		"facultyId": "F1", "date": "2025-03-10", "timeSlot": "Afternoon", "dutyType": "bundle",
	}); w.Code != http.StatusOK {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodPost, "/admin/reset-dates", token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Dates reset successfully!") {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodGet, "/admin/available-dates", token, nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty catalog, got %s", w.Body.String())
	}
	f := h.env.State.Faculty("F1")
	if len(f.Bookings) != 0 || f.Duties[model.DutyBundle] != 1 {
		t.Errorf("reset should clear bookings and keep duties, got %+v %+v", f.Bookings, f.Duties)
	}
}

func TestAdminDashboardAndListing(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F1", Branch: "CSE"})
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F2", Branch: "ECE", Designation: model.DesignationAssociateProfessor})
	h.env.State.SeedFaculty(model.Faculty{FacultyID: "F3", Branch: "ECE", Designation: model.DesignationNonTeachingFaculty})

	w := h.do(http.MethodGet, "/admin/dashboard", token, nil)
	var rollup struct {
		TotalFaculties      int            `json:"totalFaculties"`
		AssociateProfessors int            `json:"associateProfessors"`
		AssistantProfessors int            `json:"assistantProfessors"`
		NonTeachingStaff    int            `json:"nonTeachingStaff"`
		HOD                 int            `json:"hod"`
		BranchDistribution  map[string]int `json:"branchDistribution"`
	}
	decode(t, w, &rollup)
	if rollup.TotalFaculties != 4 || rollup.AssociateProfessors != 1 || rollup.AssistantProfessors != 1 ||
		rollup.NonTeachingStaff != 1 || rollup.HOD != 1 {
		t.Fatalf("unexpected rollup %+v", rollup)
	}
	if rollup.BranchDistribution["CSE"] != 2 || rollup.BranchDistribution["ECE"] != 2 {
		t.Fatalf("unexpected branches %v", rollup.BranchDistribution)
	}

	w = h.do(http.MethodGet, "/admin/faculty-list?branch=ECE&page=abc", token, nil)
	var list struct {
		Faculties  []model.Faculty     `json:"faculties"`
		Pagination response.Pagination `json:"pagination"`
	}
	decode(t, w, &list)
	if len(list.Faculties) != 2 || list.Faculties[0].FacultyID != "F2" || list.Pagination.Page != 1 || list.Pagination.TotalItems != 2 {
		t.Fatalf("unexpected listing %+v", list)
	}

	w = h.do(http.MethodGet, "/admin/profile", token, nil)
	var profile model.Faculty
	decode(t, w, &profile)
	if profile.FacultyID != "ADM1" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	ghost, _ := h.env.Auth.GenerateToken("ADM9", true)
	expectError(t, h.do(http.MethodGet, "/admin/profile", ghost, nil), http.StatusNotFound, response.ErrAdminNotFound)
}

func TestAdminHistoryAndBookingLog(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	if w := h.do(http.MethodPost, "/book-room", "", gin.H{
		"facultyId": "ADM1", "date": "2025-03-12", "timeSlot": "Morning", "dutyType": "relevel",
	}); w.Code != http.StatusOK {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}

	w := h.do(http.MethodGet, "/admin/date-history", token, nil)
	var history []model.Booking
	decode(t, w, &history)
	if len(history) != 1 || history[0].Date != "2025-03-12" {
		t.Fatalf("unexpected history %+v", history)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		e := model.NewBookingCreatedEvent(fmt.Sprintf("F%d", i), history[0])
		e.OccurredAt = testfixtures.ReferenceTime().Add(time.Duration(i) * time.Minute)
		if err := h.env.State.Events().Create(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	w = h.do(http.MethodGet, "/admin/booking-log", token, nil)
	var log struct {
		Events     []model.BookingEvent `json:"events"`
		Pagination response.Pagination  `json:"pagination"`
	}
	decode(t, w, &log)
	if len(log.Events) != 3 || log.Events[0].FacultyID != "F2" || log.Pagination.TotalItems != 3 {
		t.Fatalf("unexpected log %+v", log)
	}
}

func TestAuthRateLimit(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) { cfg.AuthRateLimit = 2 })

	for i := 0; i < 2; i++ {
		if w := h.do(http.MethodPost, "/login", "", gin.H{"facultyId": "ADM1", "password": adminPassword}); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: %d %s", i, w.Code, w.Body.String())
		}
	}
	w := h.do(http.MethodPost, "/login", "", gin.H{"facultyId": "ADM1", "password": adminPassword})
	expectError(t, w, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	if w := h.do(http.MethodGet, "/faculty-profile/ADM1", "", nil); w.Code != http.StatusOK {
		t.Errorf("non-auth routes must not be limited, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	h.health = errors.New("connection refused")
	w = h.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"postgres":"down"`) {
		t.Fatalf("degraded health: %d %s", w.Code, w.Body.String())
	}
}

func TestBookingFeed(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.router)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/admin/booking-feed"

	facultyToken, _ := h.env.Auth.GenerateToken("F1", false)
	_, resp, err := websocket.DefaultDialer.Dial(base+"?token="+facultyToken, nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for faculty token, got %v (%v)", resp, err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+h.adminToken(t), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ready map[string]interface{}
	if err := conn.ReadJSON(&ready); err != nil || ready["event"] != "ready" {
		t.Fatalf("expected ready event, got %v (%v)", ready, err)
	}

	h.feed.messages <- "not json"
	h.feed.messages <- `{"type":"booking.created","facultyId":"F1"}`

	var msg struct {
		Event string             `json:"event"`
		Data  model.BookingEvent `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Event != "booking" || msg.Data.Type != model.BookingEventCreated || msg.Data.FacultyID != "F1" {
		t.Fatalf("unexpected feed message %+v", msg)
	}
}
