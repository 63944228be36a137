// Package docs Medication Reminder API.
//
// Documentation of the Medication Reminder API. Every route under /api/v1 except the
// auth routes requires a bearer token issued by register or login.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/medication-reminder-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/auth/register auth register
// Creates an account and returns a token for it.
// responses:
//   201: authResponse
//   400: errorResponse

// swagger:route POST /api/v1/auth/login auth login
// Exchanges an email and password for a token.
// responses:
//   200: authResponse
//   401: errorResponse

// A signed token and the summary of the authenticated user.
// swagger:response authResponse
type authResponseWrapper struct {
	// in:body
	Body models.AuthResponse
}

// swagger:parameters register
type registerParamsWrapper struct {
	// in:body
	Body models.RegisterRequest
}

// swagger:parameters login
type loginParamsWrapper struct {
	// in:body
	Body models.LoginRequest
}

// swagger:route GET /api/v1/medications medications listMedications
// Lists the caller's active medications, newest first. Pass includeInactive=true to include deleted ones.
// responses:
//   200: medicationsResponse

// swagger:route POST /api/v1/medications medications createMedication
// Adds a medication.
// responses:
//   201: medicationResponse
//   400: errorResponse

// swagger:route GET /api/v1/medications/{id} medications medicationByID
// Gets one of the caller's medications.
// responses:
//   200: medicationResponse
//   404: errorResponse

// swagger:route PUT /api/v1/medications/{id} medications updateMedication
// Updates the supplied fields of a medication.
// responses:
//   200: medicationResponse
//   400: errorResponse
//   404: errorResponse

// swagger:route DELETE /api/v1/medications/{id} medications deleteMedication
// Deactivates a medication. Its logs are kept.
// responses:
//   200: medicationResponse
//   404: errorResponse

// A list of medications in the success envelope with its count.
// swagger:response medicationsResponse
type medicationsResponseWrapper struct {
	// in:body
	Body struct {
		models.Response
		Data []models.Medication `json:"data"`
	}
}

// A single medication in the success envelope.
// swagger:response medicationResponse
type medicationResponseWrapper struct {
	// in:body
	Body struct {
		models.Response
		Data models.Medication `json:"data"`
	}
}

// swagger:parameters createMedication updateMedication
type medicationParamsWrapper struct {
	// in:body
	Body models.MedicationRequest
}

// swagger:route GET /api/v1/logs logs listLogs
// Lists the caller's logs, most recently scheduled first. limit and page select a page.
// responses:
//   200: logsResponse

// swagger:route POST /api/v1/logs logs createLog
// Records a dose by hand.
// responses:
//   201: logResponse
//   400: errorResponse
//   404: errorResponse

// swagger:route POST /api/v1/logs/scheduled logs generateSchedule
// Creates today's pending logs for every active medication due today. Repeat calls create nothing new.
// responses:
//   201: logsResponse

// swagger:route GET /api/v1/logs/today logs todayLogs
// Lists today's logs, earliest first, flagging overdue pending doses.
// responses:
//   200: logsResponse

// swagger:route GET /api/v1/logs/{id} logs logByID
// Gets one of the caller's logs.
// responses:
//   200: logResponse
//   404: errorResponse

// swagger:route PUT /api/v1/logs/{id} logs updateLog
// Changes the status, takenAt or notes of a log.
// responses:
//   200: logResponse
//   400: errorResponse
//   404: errorResponse

// swagger:route DELETE /api/v1/logs/{id} logs deleteLog
// Removes a log.
// responses:
//   200: logResponse
//   404: errorResponse

// A list of populated logs in the success envelope with its count.
// swagger:response logsResponse
type logsResponseWrapper struct {
	// in:body
	Body struct {
		models.Response
		Data []models.MedicationLogView `json:"data"`
	}
}

// A single populated log in the success envelope.
// swagger:response logResponse
type logResponseWrapper struct {
	// in:body
	Body struct {
		models.Response
		Data models.MedicationLogView `json:"data"`
	}
}

// swagger:parameters createLog
type createLogParamsWrapper struct {
	// in:body
	Body models.CreateLogRequest
}

// swagger:parameters updateLog
type updateLogParamsWrapper struct {
	// in:body
	Body models.UpdateLogRequest
}

// swagger:parameters medicationByID updateMedication deleteMedication logByID updateLog deleteLog
type idParamsWrapper struct {
	// in:path
	// required: true
	ID string `json:"id"`
}

// The failure envelope.
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorResponse
}
