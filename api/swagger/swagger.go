// Package swagger holds the generated API document served at /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Management API",
        "description": "Role-partitioned REST backend for school administration",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Login, logout and session management per role"},
        {"name": "Attendance", "description": "Daily attendance records"},
        {"name": "Homework", "description": "Homework assigned per grade"},
        {"name": "Marks", "description": "Exam and assignment marks"},
        {"name": "Notices", "description": "School and class notices"},
        {"name": "Calendar", "description": "School calendar events"},
        {"name": "Timetable", "description": "Class timetable slots"},
        {"name": "Accounts", "description": "Admin account management"},
        {"name": "Classes", "description": "Class and subject management"},
        {"name": "Audit", "description": "Audit trail"},
        {"name": "Reports", "description": "CSV and PDF exports"}
    ],
    "paths": {
        "/students/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a student account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Active session exists"}
                }
            }
        },
        "/students/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the caller's session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthenticated"}
                }
            }
        },
        "/students/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List the caller's attendance",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No records"}
                }
            }
        },
        "/teachers/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance for a class on a date",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already recorded"}
                }
            },
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No records"}
                }
            }
        },
        "/teachers/marks": {
            "post": {
                "tags": ["Marks"],
                "summary": "Record a mark",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate mark"}
                }
            }
        },
        "/admin/accounts": {
            "get": {
                "tags": ["Accounts"],
                "summary": "List accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Accounts"],
                "summary": "Create an account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "School id already in use"}
                }
            }
        },
        "/admin/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit trail entries",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/reports/marks": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a marks report",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "File"},
                    "404": {"description": "No records"}
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Degraded"}
                }
            }
        }
    },
    "definitions": {
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
