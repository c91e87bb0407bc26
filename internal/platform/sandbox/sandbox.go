// Package sandbox serves a synthetic in-memory rendition of the MedSyn
// backend: the same endpoint surface, envelope convention and header
// contract, seeded with demo data. It backs the sandbox command for offline
// demos and the integration tests for the console's services.
package sandbox

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

type patientRecord struct {
	PatientID       string `json:"patientId"`
	HealthID        string `json:"healthId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Gender          string `json:"gender,omitempty"`
	Phone           string `json:"phone,omitempty"`
	AdmissionStatus string `json:"admissionStatus,omitempty"`
}

type staffRecord struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type eventRecord struct {
	EventID     string `json:"eventId"`
	HealthID    string `json:"healthId"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

type medicationRecord struct {
	MedicationID string `json:"medicationId"`
	HealthID     string `json:"healthId"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Status       string `json:"status"`
	Source       string `json:"source,omitempty"`
}

type reportRecord struct {
	ReportID string `json:"reportId"`
	HealthID string `json:"healthId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	FileName string `json:"fileName,omitempty"`
}

type goalRecord struct {
	GoalID   string `json:"goalId"`
	HealthID string `json:"healthId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Status   string `json:"status"`
}

type visitRecord struct {
	VisitID   string `json:"visitId"`
	SessionID string `json:"sessionId,omitempty"`
	Date      string `json:"vDate"`
	Summary   string `json:"summary,omitempty"`
}

type interventionRecord struct {
	SessionID     string        `json:"sessionId"`
	HealthID      string        `json:"healthId"`
	Name          string        `json:"name"`
	Discipline    string        `json:"type"`
	OnWeek        int           `json:"onWeek"`
	DurationWeeks int           `json:"duration"`
	Status        string        `json:"status"`
	Visits        []visitRecord `json:"visits,omitempty"`
}

type dietEntry struct {
	Day       string   `json:"day"`
	Type      string   `json:"type"`
	FoodItems []string `json:"foodItems"`
}

type dietPlanRecord struct {
	PlanID  string      `json:"planId"`
	Active  bool        `json:"active"`
	Entries []dietEntry `json:"entries"`
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server is the in-memory backend. All state lives behind one mutex; the
// surface is far too small to need anything finer.
type Server struct {
	mu sync.Mutex

	token         string
	email         string
	password      string
	resetCode     string
	patients      []patientRecord
	staff         []staffRecord
	events        map[string][]eventRecord
	medications   map[string][]medicationRecord
	reports       map[string][]reportRecord
	goals         map[string][]goalRecord
	interventions map[string][]interventionRecord
	diets         map[string][]dietEntry
	dietHistory   map[string][]dietPlanRecord

	// summaryPolls counts polls per health ID so generation "finishes"
	// after a few rounds.
	summaryPolls map[string]int
}

// New builds a seeded sandbox. The demo account is doc@medsyn.test with
// password sandbox123.
func New() *Server {
	s := &Server{
		email:         "doc@medsyn.test",
		password:      "sandbox123",
		events:        map[string][]eventRecord{},
		medications:   map[string][]medicationRecord{},
		reports:       map[string][]reportRecord{},
		goals:         map[string][]goalRecord{},
		interventions: map[string][]interventionRecord{},
		diets:         map[string][]dietEntry{},
		dietHistory:   map[string][]dietPlanRecord{},
		summaryPolls:  map[string]int{},
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	s.patients = []patientRecord{
		{PatientID: "p1", HealthID: "H1001", FirstName: "Asha", LastName: "Menon", Gender: "female", AdmissionStatus: "admitted"},
		{PatientID: "p2", HealthID: "H1002", FirstName: "Ravi", LastName: "Kumar", Gender: "male", AdmissionStatus: "discharged"},
		{PatientID: "p3", HealthID: "H1003", FirstName: "Meera", LastName: "Nair", Gender: "female", AdmissionStatus: "admitted"},
	}
	s.staff = []staffRecord{
		{UserID: "u1", FirstName: "Devika", LastName: "Rao", Email: "devika@medsyn.test", Role: "doctor"},
		{UserID: "u2", FirstName: "Sanjay", LastName: "Pillai", Email: "sanjay@medsyn.test", Role: "nurse"},
	}
	s.events["H1001"] = []eventRecord{
		{EventID: "e1", HealthID: "H1001", Type: "surgery", Status: "completed", Description: "Knee replacement"},
		{EventID: "e2", HealthID: "H1001", Type: "scan", Status: "scheduled", Description: "Follow-up MRI"},
	}
	s.medications["H1001"] = []medicationRecord{
		{MedicationID: "m1", HealthID: "H1001", Name: "Metformin", Dosage: "500mg", Frequency: "twice daily", Status: "active", Source: "manual"},
	}
	s.goals["H1001"] = []goalRecord{
		{GoalID: "g1", HealthID: "H1001", Name: "Independent transfers", Type: "short-term", Status: "ongoing"},
	}
	s.interventions["H1001"] = []interventionRecord{
		{SessionID: "s1", HealthID: "H1001", Name: "Gait training", Discipline: "pt", OnWeek: 1, DurationWeeks: 2, Status: "ongoing",
			Visits: []visitRecord{{VisitID: "v1", SessionID: "s1", Date: "2026-08-20", Summary: "Tolerated well"}}},
	}
	s.diets["H1001"] = []dietEntry{
		{Day: "monday", Type: "breakfast", FoodItems: []string{"Oats", "Banana"}},
		{Day: "monday", Type: "lunch", FoodItems: []string{"Rice", "Dal", "Spinach"}},
	}
}

// Register mounts the sandbox routes on an echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/auth/signin", s.signin)
	e.POST("/auth/forgot-password", s.forgotPassword)
	e.POST("/auth/reset-password", s.resetPassword)
	e.GET("/auth/user-profile", s.userProfile, s.requireAuth)
	e.POST("/auth/update-profile/user", s.updateUserProfile, s.requireAuth)
	e.POST("/auth/create", s.registerStaff, s.requireAuth)
	e.POST("/auth/update-profile", s.updateStaff, s.requireAuth)

	e.POST("/patients/list", s.listPatients, s.requireAuth)
	e.GET("/patients/:patientId", s.getPatient, s.requireAuth)
	e.POST("/patients/onboard", s.onboardPatient, s.requireAuth)
	e.POST("/patients/update/:patientId", s.updatePatient, s.requireAuth)

	e.POST("/staff/list", s.listStaff, s.requireAuth)
	e.GET("/staff/:userId", s.getStaff, s.requireAuth)

	e.GET("/patients/health-events/:healthId/:page/:limit", s.listEvents, s.requireAuth)
	e.POST("/patients/health-events/add-new", s.addEvent, s.requireAuth)
	e.POST("/patients/health-events/update/:healthId", s.updateEvent, s.requireAuth)
	e.DELETE("/patients/health-events/delete/:healthId/:eventId", s.deleteEvent, s.requireAuth)

	e.GET("/patients/health-medications/:healthId/:page/:limit/:search", s.listMedications, s.requireAuth)
	e.POST("/patients/health-medications/add-new", s.addMedication, s.requireAuth)
	e.POST("/patients/health-medications/update/:healthId", s.updateMedication, s.requireAuth)

	e.POST("/patients/health-reports/add-new", s.uploadReport, s.requireAuth)
	e.GET("/patients/health-reports/:healthId/:page/:limit", s.listReports, s.requireAuth)

	e.GET("/patients/therapy-goals/:healthId", s.listGoals, s.requireAuth)
	e.POST("/patients/therapy-goals/add-new", s.addGoal, s.requireAuth)
	e.GET("/patients/therapy-sessions/:healthId", s.listInterventions, s.requireAuth)
	e.POST("/patients/therapy-sessions/add-new", s.addIntervention, s.requireAuth)
	e.POST("/patients/therapy-sessions/update/:healthId", s.updateIntervention, s.requireAuth)
	e.POST("/patients/therapy-visits/add-new", s.addVisit, s.requireAuth)
	e.POST("/patients/therapy-visits/update/:healthId", s.updateVisit, s.requireAuth)

	e.GET("/patients/diet-plans/:healthId", s.getDietPlan, s.requireAuth)
	e.GET("/patients/diet-plans/history/:healthId", s.dietPlanHistory, s.requireAuth)
	e.POST("/patients/diet-plans/generate/:healthId", s.generateDietPlan, s.requireAuth)

	e.GET("/patients/overview/:healthId", s.getSummary, s.requireAuth)
	e.POST("/patients/overview/generate/:healthId", s.generateSummary, s.requireAuth)

	e.POST("/medsyn-consumer/api/bot/user-query", s.botQuery, s.requireAuth)
}

// ---------------------------------------------------------------------------
// Envelope helpers
// ---------------------------------------------------------------------------

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}

func fail(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, map[string]any{"success": false, "message": message})
}

func page[T any](items []T, pageStr, limitStr string) ([]T, int) {
	pageNum, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(items)
	start := (pageNum - 1) * limit
	if start >= total {
		return []T{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], total
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()
		header := c.Request().Header.Get("Authorization")
		if token == "" || header != "Bearer "+token {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"error": "Unauthorized", "message": "invalid or expired token", "statusCode": 401,
			})
		}
		if c.Request().Header.Get("hospital-id") == "" {
			return c.JSON(http.StatusForbidden, map[string]any{
				"error": "Forbidden", "message": "missing hospital-id header", "statusCode": 403,
			})
		}
		return next(c)
	}
}

func (s *Server) signin(c echo.Context) error {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&creds); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if creds.Email != s.email || creds.Password != s.password {
		return fail(c, "invalid credentials")
	}
	s.token = uuid.NewString()
	return ok(c, map[string]any{
		"user": map[string]any{
			"id": "u1", "firstName": "Devika", "lastName": "Rao",
			"email": s.email, "role": "doctor",
		},
		"accessToken":  s.token,
		"refreshToken": uuid.NewString(),
	})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Email != s.email {
		return fail(c, "account not found")
	}
	// The real backend emails the code; the sandbox hands it back so the
	// reset flow can be exercised offline.
	s.resetCode = uuid.NewString()
	return ok(c, s.resetCode)
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Email != s.email || s.resetCode == "" || req.Code != s.resetCode {
		return fail(c, "invalid reset code")
	}
	s.password = req.Password
	s.resetCode = ""
	return ok(c, map[string]any{"reset": true})
}

func (s *Server) userProfile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ok(c, map[string]any{
		"id": "u1", "firstName": "Devika", "lastName": "Rao",
		"email": s.email, "role": "doctor",
	})
}

func (s *Server) updateUserProfile(c echo.Context) error {
	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	req["id"] = "u1"
	return ok(c, req)
}

func (s *Server) registerStaff(c echo.Context) error {
	var rec staffRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.UserID = "u" + strconv.Itoa(len(s.staff)+1)
	s.staff = append(s.staff, rec)
	return ok(c, rec)
}

func (s *Server) updateStaff(c echo.Context) error {
	var rec staffRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].UserID == rec.UserID {
			s.staff[i] = rec
			return ok(c, rec)
		}
	}
	return fail(c, "staff member not found")
}

// ---------------------------------------------------------------------------
// Patients and staff
// ---------------------------------------------------------------------------

func (s *Server) listPatients(c echo.Context) error {
	var req struct {
		Page   int    `json:"page"`
		Limit  int    `json:"limit"`
		Search string `json:"search"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]patientRecord, 0, len(s.patients))
	needle := strings.ToLower(req.Search)
	for _, p := range s.patients {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), needle) ||
			strings.Contains(strings.ToLower(p.HealthID), needle) {
			matched = append(matched, p)
		}
	}
	items, total := page(matched, strconv.Itoa(req.Page), strconv.Itoa(req.Limit))
	return ok(c, map[string]any{"patients": items, "totalCount": total})
}

func (s *Server) getPatient(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.PatientID == c.Param("patientId") {
			return ok(c, p)
		}
	}
	return fail(c, "patient not found")
}

func (s *Server) onboardPatient(c echo.Context) error {
	var rec patientRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.PatientID = "p" + strconv.Itoa(len(s.patients)+1)
	rec.HealthID = fmt.Sprintf("H%d", 1000+len(s.patients)+1)
	rec.AdmissionStatus = "admitted"
	s.patients = append([]patientRecord{rec}, s.patients...)
	return ok(c, rec)
}

func (s *Server) updatePatient(c echo.Context) error {
	var rec patientRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].PatientID == c.Param("patientId") {
			rec.PatientID = s.patients[i].PatientID
			rec.HealthID = s.patients[i].HealthID
			s.patients[i] = rec
			return ok(c, rec)
		}
	}
	return fail(c, "patient not found")
}

func (s *Server) getStaff(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, member := range s.staff {
		if member.UserID == c.Param("userId") {
			return ok(c, member)
		}
	}
	return fail(c, "staff member not found")
}

func (s *Server) listStaff(c echo.Context) error {
	var req struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, total := page(s.staff, strconv.Itoa(req.Page), strconv.Itoa(req.Limit))
	return ok(c, map[string]any{"staff": items, "totalCount": total})
}

// ---------------------------------------------------------------------------
// Health events
// ---------------------------------------------------------------------------

func (s *Server) listEvents(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, total := page(s.events[c.Param("healthId")], c.Param("page"), c.Param("limit"))
	return ok(c, map[string]any{"events": items, "totalCount": total})
}

func (s *Server) addEvent(c echo.Context) error {
	var rec eventRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	if rec.HealthID == "" {
		return fail(c, "healthId is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.EventID = uuid.NewString()
	s.events[rec.HealthID] = append([]eventRecord{rec}, s.events[rec.HealthID]...)
	return ok(c, rec)
}

func (s *Server) updateEvent(c echo.Context) error {
	var rec eventRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.events[c.Param("healthId")]
	for i := range list {
		if list[i].EventID == rec.EventID {
			list[i] = rec
			return ok(c, rec)
		}
	}
	return fail(c, "event not found")
}

func (s *Server) deleteEvent(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	healthID, eventID := c.Param("healthId"), c.Param("eventId")
	list := s.events[healthID]
	for i := range list {
		if list[i].EventID == eventID {
			s.events[healthID] = append(list[:i], list[i+1:]...)
			return ok(c, map[string]any{"deleted": true})
		}
	}
	return fail(c, "event not found")
}

// ---------------------------------------------------------------------------
// Medications and reports
// ---------------------------------------------------------------------------

func (s *Server) listMedications(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.medications[c.Param("healthId")]
	search := c.Param("search")
	matched := make([]medicationRecord, 0, len(all))
	for _, m := range all {
		if search == "null" || strings.Contains(strings.ToLower(m.Name), strings.ToLower(search)) {
			matched = append(matched, m)
		}
	}
	items, total := page(matched, c.Param("page"), c.Param("limit"))
	return ok(c, map[string]any{"medications": items, "totalCount": total})
}

func (s *Server) addMedication(c echo.Context) error {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	s.mu.Lock()
	defer s.mu.Unlock()

	// Multipart means a prescription scan; a fixed extraction result keeps
	// the sandbox deterministic.
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		healthID := c.FormValue("healthId")
		if healthID == "" {
			return fail(c, "healthId is required")
		}
		extracted := medicationRecord{
			MedicationID: uuid.NewString(),
			HealthID:     healthID,
			Name:         "Atorvastatin",
			Dosage:       "10mg",
			Frequency:    "once daily",
			Status:       "active",
			Source:       "scanned",
		}
		s.medications[healthID] = append([]medicationRecord{extracted}, s.medications[healthID]...)
		return ok(c, map[string]any{
			"medications": []medicationRecord{extracted},
			"documentId":  uuid.NewString(),
		})
	}

	var rec medicationRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	if rec.HealthID == "" {
		return fail(c, "healthId is required")
	}
	rec.MedicationID = uuid.NewString()
	s.medications[rec.HealthID] = append([]medicationRecord{rec}, s.medications[rec.HealthID]...)
	return ok(c, rec)
}

func (s *Server) updateMedication(c echo.Context) error {
	var rec medicationRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.medications[c.Param("healthId")]
	for i := range list {
		if list[i].MedicationID == rec.MedicationID {
			list[i] = rec
			return ok(c, rec)
		}
	}
	return fail(c, "medication not found")
}

func (s *Server) uploadReport(c echo.Context) error {
	healthID := c.FormValue("healthId")
	if healthID == "" {
		return fail(c, "healthId is required")
	}
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, "file is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := reportRecord{
		ReportID: uuid.NewString(),
		HealthID: healthID,
		Name:     c.FormValue("name"),
		Type:     c.FormValue("type"),
		FileName: file.Filename,
	}
	s.reports[healthID] = append([]reportRecord{rec}, s.reports[healthID]...)
	return ok(c, rec)
}

func (s *Server) listReports(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, total := page(s.reports[c.Param("healthId")], c.Param("page"), c.Param("limit"))
	return ok(c, map[string]any{"reports": items, "totalCount": total})
}

// ---------------------------------------------------------------------------
// Therapy
// ---------------------------------------------------------------------------

func (s *Server) listGoals(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := s.goals[c.Param("healthId")]
	if goals == nil {
		goals = []goalRecord{}
	}
	return ok(c, map[string]any{"goals": goals, "totalCount": len(goals)})
}

func (s *Server) addGoal(c echo.Context) error {
	var rec goalRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	if rec.HealthID == "" {
		return fail(c, "healthId is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.GoalID = uuid.NewString()
	s.goals[rec.HealthID] = append([]goalRecord{rec}, s.goals[rec.HealthID]...)
	return ok(c, rec)
}

func (s *Server) listInterventions(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.interventions[c.Param("healthId")]
	if sessions == nil {
		sessions = []interventionRecord{}
	}
	return ok(c, map[string]any{"sessions": sessions, "totalCount": len(sessions)})
}

func (s *Server) addIntervention(c echo.Context) error {
	var rec interventionRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	if rec.HealthID == "" {
		return fail(c, "healthId is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.SessionID = uuid.NewString()
	s.interventions[rec.HealthID] = append([]interventionRecord{rec}, s.interventions[rec.HealthID]...)
	return ok(c, rec)
}

func (s *Server) updateIntervention(c echo.Context) error {
	var rec interventionRecord
	if err := c.Bind(&rec); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.interventions[c.Param("healthId")]
	for i := range list {
		if list[i].SessionID == rec.SessionID {
			rec.Visits = list[i].Visits
			list[i] = rec
			return ok(c, rec)
		}
	}
	return fail(c, "intervention not found")
}

func (s *Server) updateVisit(c echo.Context) error {
	var req struct {
		HealthID string `json:"healthId"`
		visitRecord
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.interventions[c.Param("healthId")]
	for i := range list {
		for j := range list[i].Visits {
			if list[i].Visits[j].VisitID == req.VisitID {
				list[i].Visits[j] = req.visitRecord
				return ok(c, req.visitRecord)
			}
		}
	}
	return fail(c, "visit not found")
}

func (s *Server) addVisit(c echo.Context) error {
	var req struct {
		HealthID string `json:"healthId"`
		visitRecord
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, "malformed request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.interventions[req.HealthID]
	for i := range list {
		if list[i].SessionID == req.SessionID {
			req.visitRecord.VisitID = uuid.NewString()
			list[i].Visits = append(list[i].Visits, req.visitRecord)
			return ok(c, req.visitRecord)
		}
	}
	return fail(c, "intervention not found")
}

// ---------------------------------------------------------------------------
// Diet plans, summaries, chatbot
// ---------------------------------------------------------------------------

func (s *Server) getDietPlan(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.diets[c.Param("healthId")]
	if entries == nil {
		entries = []dietEntry{}
	}
	return ok(c, map[string]any{"planId": "dp1", "active": true, "entries": entries})
}

func (s *Server) dietPlanHistory(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := s.dietHistory[c.Param("healthId")]
	if plans == nil {
		plans = []dietPlanRecord{}
	}
	return ok(c, map[string]any{"plans": plans})
}

// generateDietPlan retires the current plan into the history before the new
// one becomes active.
func (s *Server) generateDietPlan(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	healthID := c.Param("healthId")
	if old := s.diets[healthID]; len(old) > 0 {
		s.dietHistory[healthID] = append(s.dietHistory[healthID],
			dietPlanRecord{PlanID: "dp1", Active: false, Entries: old})
	}
	entries := []dietEntry{
		{Day: "monday", Type: "breakfast", FoodItems: []string{"Oats", "Almonds"}},
		{Day: "monday", Type: "dinner", FoodItems: []string{"Grilled fish", "Vegetables"}},
		{Day: "tuesday", Type: "lunch", FoodItems: []string{"Quinoa", "Chickpeas"}},
	}
	s.diets[healthID] = entries
	return ok(c, map[string]any{"planId": uuid.NewString(), "active": true, "entries": entries})
}

func (s *Server) getSummary(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	healthID := c.Param("healthId")
	if s.summaryPolls[healthID] > 0 {
		s.summaryPolls[healthID]--
		return ok(c, map[string]any{"healthId": healthID, "summary": "", "isProcessing": true})
	}
	return ok(c, map[string]any{
		"healthId":     healthID,
		"summary":      "Patient is recovering steadily; mobility improving week over week.",
		"isProcessing": false,
		"generatedAt":  time.Now().UTC(),
	})
}

func (s *Server) generateSummary(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	healthID := c.Param("healthId")
	s.summaryPolls[healthID] = 2
	return ok(c, map[string]any{"healthId": healthID, "summary": "", "isProcessing": true})
}

func (s *Server) botQuery(c echo.Context) error {
	query := c.FormValue("query")
	if query == "" {
		return fail(c, "query is required")
	}
	answer := "I could not find anything relevant in the record."
	if patientID := c.FormValue("patientId"); patientID != "" {
		answer = fmt.Sprintf("For patient %s: the recent record shows stable vitals and an active therapy plan.", patientID)
	}
	if _, err := c.FormFile("file"); err == nil {
		answer += " The attached document has been considered."
	}
	return ok(c, map[string]any{"answer": answer})
}
