// Package gateway is the single HTTP boundary of the console. It owns the
// endpoint table, header construction, the response envelope convention, and
// error normalization; feature services layer typed request/response shaping
// on top of it.
package gateway

import (
	"fmt"
	"strings"
)

// Endpoint templates for the business, login and bot APIs. Path parameters
// use {param} placeholders resolved by Resolve before a request is issued.
const (
	EndpointLogin              = "auth/signin"
	EndpointForgotPassword     = "auth/forgot-password"
	EndpointResetPassword      = "auth/reset-password"
	EndpointLogout             = "auth/logout"
	EndpointUserProfile        = "auth/user-profile"
	EndpointUpdateUserProfile  = "auth/update-profile/user"
	EndpointRegisterStaff      = "auth/create"
	EndpointUpdateStaff        = "auth/update-profile"
	EndpointStaffList          = "staff/list"
	EndpointStaffByID          = "staff/{userId}"
	EndpointPatientList        = "patients/list"
	EndpointPatientByID        = "patients/{patientId}"
	EndpointPatientOnboard     = "patients/onboard"
	EndpointPatientUpdate      = "patients/update/{patientId}"
	EndpointPatientSummary     = "patients/overview/{healthId}"
	EndpointGenerateSummary    = "patients/overview/generate/{healthId}"
	EndpointReportUpload       = "patients/health-reports/add-new"
	EndpointReportList         = "patients/health-reports/{healthId}/{page}/{limit}"
	EndpointEventAdd           = "patients/health-events/add-new"
	EndpointEventUpdate        = "patients/health-events/update/{healthId}"
	EndpointEventDelete        = "patients/health-events/delete/{healthId}/{eventId}"
	EndpointEventList          = "patients/health-events/{healthId}/{page}/{limit}"
	EndpointMedicationList     = "patients/health-medications/{healthId}/{page}/{limit}/{search}"
	EndpointMedicationUpload   = "patients/health-medications/add-new"
	EndpointMedicationUpdate   = "patients/health-medications/update/{healthId}"
	EndpointTherapyGoals       = "patients/therapy-goals/{healthId}"
	EndpointTherapyGoalSubmit  = "patients/therapy-goals/add-new"
	EndpointTherapySessions    = "patients/therapy-sessions/{healthId}"
	EndpointTherapySubmit      = "patients/therapy-sessions/add-new"
	EndpointTherapyUpdate      = "patients/therapy-sessions/update/{healthId}"
	EndpointVisitSubmit        = "patients/therapy-visits/add-new"
	EndpointVisitUpdate        = "patients/therapy-visits/update/{healthId}"
	EndpointDietPlan           = "patients/diet-plans/{healthId}"
	EndpointDietPlanHistory    = "patients/diet-plans/history/{healthId}"
	EndpointDietPlanGenerate   = "patients/diet-plans/generate/{healthId}"
	EndpointBotUserQuery       = "medsyn-consumer/api/bot/user-query"
)

// Resolve substitutes {param} placeholders in an endpoint template. Every
// placeholder must be filled; a template with leftover braces means a caller
// forgot a path parameter, which would otherwise leak into the request URL.
func Resolve(template string, params map[string]string) (string, error) {
	resolved := template
	for key, value := range params {
		resolved = strings.ReplaceAll(resolved, "{"+key+"}", value)
	}
	if strings.ContainsAny(resolved, "{}") {
		return "", fmt.Errorf("unresolved placeholder in endpoint %q", resolved)
	}
	return resolved, nil
}
