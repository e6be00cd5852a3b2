package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Recurring weekly timetable management scoped to academic quarters",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Academic Years", "description": "Academic year calendar and quarter math"},
        {"name": "Schedule Slots", "description": "Weekly recurring slots per subject group"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/academic-years": {
            "get": {
                "tags": ["Academic Years"],
                "summary": "List academic years",
                "parameters": [
                    {"name": "isActive", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Academic Years"],
                "summary": "Create academic year",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAcademicYearRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/academic-years/current": {
            "get": {
                "tags": ["Academic Years"],
                "summary": "Get active academic year",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No active year"}
                }
            }
        },
        "/api/v1/academic-years/current/quarter": {
            "get": {
                "tags": ["Academic Years"],
                "summary": "Get the quarter containing today",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/academic-years/{id}": {
            "get": {
                "tags": ["Academic Years"],
                "summary": "Get academic year",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Academic Years"],
                "summary": "Update academic year",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAcademicYearRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Academic Years"],
                "summary": "Delete academic year",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/academic-years/{id}/quarters": {
            "get": {
                "tags": ["Academic Years"],
                "summary": "Compute quarter ranges for a year",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/academic-years/{id}/activate": {
            "post": {
                "tags": ["Academic Years"],
                "summary": "Mark an academic year as the active one",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule-slots": {
            "get": {
                "tags": ["Schedule Slots"],
                "summary": "List schedule slots for a subject group",
                "parameters": [
                    {"name": "subject_group", "in": "query", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "type": "integer"},
                    {"name": "quarter", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedule Slots"],
                "summary": "Create schedule slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule-slots/{id}": {
            "get": {
                "tags": ["Schedule Slots"],
                "summary": "Get one schedule slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Schedule Slots"],
                "summary": "Partially update a schedule slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PatchSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedule Slots"],
                "summary": "Delete schedule slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/subject-groups/{id}/schedule-slots": {
            "put": {
                "tags": ["Schedule Slots"],
                "summary": "Replace a subject group's whole weekly schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Clearing a non-empty schedule requires confirm_clear"}
                }
            }
        },
        "/api/v1/subject-groups/{id}/schedule-slots/export": {
            "get": {
                "tags": ["Schedule Slots"],
                "summary": "Export a subject group's schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "AcademicYear": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "start_date": {"type": "string"},
                "quarter1_weeks": {"type": "integer"},
                "quarter2_weeks": {"type": "integer"},
                "quarter3_weeks": {"type": "integer"},
                "quarter4_weeks": {"type": "integer"},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "ScheduleSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "subject_group": {"type": "string"},
                "day_of_week": {"type": "integer", "description": "0=Monday .. 6=Sunday"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:30"},
                "room": {"type": "string"},
                "quarter": {"type": "integer", "description": "1-4; absent means every quarter"}
            }
        },
        "QuarterRange": {
            "type": "object",
            "properties": {
                "quarter": {"type": "integer"},
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "CreateAcademicYearRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "start_date": {"type": "string"},
                "quarter1_weeks": {"type": "integer"},
                "quarter2_weeks": {"type": "integer"},
                "quarter3_weeks": {"type": "integer"},
                "quarter4_weeks": {"type": "integer"},
                "is_active": {"type": "boolean"}
            },
            "required": ["name", "start_date"]
        },
        "UpdateAcademicYearRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "start_date": {"type": "string"},
                "quarter1_weeks": {"type": "integer"},
                "quarter2_weeks": {"type": "integer"},
                "quarter3_weeks": {"type": "integer"},
                "quarter4_weeks": {"type": "integer"},
                "is_active": {"type": "boolean"}
            },
            "required": ["name", "start_date"]
        },
        "CreateSlotRequest": {
            "type": "object",
            "properties": {
                "subject_group": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:30"},
                "room": {"type": "string"},
                "quarter": {"type": "integer"}
            },
            "required": ["subject_group"]
        },
        "PatchSlotRequest": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "room": {"type": "string"},
                "quarter": {"type": "integer"}
            }
        },
        "ReplaceScheduleRequest": {
            "type": "object",
            "properties": {
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ScheduleSlot"}
                },
                "confirm_clear": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
