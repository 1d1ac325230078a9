package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HR Attendance API",
        "description": "Biometric attendance reconciliation and disciplinary points lifecycle",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Reconciliation", "description": "Scan-to-attendance pipeline"},
        {"name": "Attendance", "description": "Reconciled attendance rows"},
        {"name": "Points", "description": "Disciplinary points ledger and roll-off"},
        {"name": "Reports", "description": "Downloadable exports"}
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
        "/reconciliation/run": {
            "post": {
                "tags": ["Reconciliation"],
                "summary": "Reconcile biometric scans into attendance rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunReconciliationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List reconciled attendance rows",
                "parameters": [
                    {"name": "employeeId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortOrder", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/points": {
            "get": {
                "tags": ["Points"],
                "summary": "List attendance points",
                "parameters": [
                    {"name": "userId", "in": "query", "type": "string"},
                    {"name": "pointType", "in": "query", "type": "string"},
                    {"name": "expired", "in": "query", "type": "boolean"},
                    {"name": "excused", "in": "query", "type": "boolean"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/points/{id}/excuse": {
            "post": {
                "tags": ["Points"],
                "summary": "Excuse an active point",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExcusePointRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/points/expirations/run": {
            "post": {
                "tags": ["Points"],
                "summary": "Run the SRO and GBRO expiration sweep",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RunExpirationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/points/expired/reset": {
            "post": {
                "tags": ["Points"],
                "summary": "Recompute expiry dates on expired points",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ResetExpiredRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/points/duplicates/cleanup": {
            "post": {
                "tags": ["Points"],
                "summary": "Remove duplicate points sharing a uniqueness key",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/points/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export the points ledger",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "userId", "in": "query", "type": "string"},
                    {"name": "pointType", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "RunReconciliationRequest": {
            "type": "object",
            "properties": {
                "employeeIds": {"type": "array", "items": {"type": "string"}},
                "from": {"type": "string"},
                "to": {"type": "string"}
            },
            "required": ["employeeIds", "from", "to"]
        },
        "ExcusePointRequest": {
            "type": "object",
            "properties": {
                "excusedBy": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["excusedBy", "reason"]
        },
        "RunExpirationRequest": {
            "type": "object",
            "properties": {
                "dryRun": {"type": "boolean"},
                "notify": {"type": "boolean"}
            }
        },
        "ResetExpiredRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "pointType": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"}
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
