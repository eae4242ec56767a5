// Package docs holds the swagger document for the HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and snapshot readiness",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/dashboard": {
            "get": {
                "description": "Metrics and validated records from the last completed ingestion cycle",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Current dashboard snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.View"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/metrics": {
            "get": {
                "description": "Recomputes metrics over records matching the query parameters (field=value)",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Filtered metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.View"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Filtered records",
                "parameters": [
                    {"type": "integer", "description": "page size (0 = all)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/export.xlsx": {
            "get": {
                "description": "Filtered records of the current snapshot as a spreadsheet",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["dashboard"],
                "summary": "Export records as xlsx",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}}
                }
            }
        },
        "/api/schema": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Active dataset schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/schema.Schema"}}
                }
            }
        },
        "/api/runs/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Latest ingestion cycle",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Run"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/refresh": {
            "post": {
                "description": "Runs a full fetch, validate and aggregate cycle",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Refresh now",
                "parameters": [
                    {"type": "string", "description": "admin key", "name": "X-Admin-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Run"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/chat": {
            "post": {
                "description": "Forwards a chat widget message to the configured webhook",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Chat relay",
                "parameters": [
                    {"description": "message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ChatRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string", "maxLength": 4000},
                "timestamp": {"type": "string"},
                "dashboard_context": {"type": "string"},
                "user_session": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {}
                    }
                }
            }
        },
        "models.Run": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "source": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "elapsed_ms": {"type": "integer"},
                "decoded": {"type": "integer"},
                "accepted": {"type": "integer"},
                "rejected": {"type": "integer"},
                "checksum": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "schema.Field": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "values": {"type": "array", "items": {"type": "string"}},
                "aliases": {"type": "array", "items": {"type": "string"}},
                "value_aliases": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "schema.Schema": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/schema.Field"}}
            }
        },
        "service.View": {
            "type": "object",
            "properties": {
                "cycle_id": {"type": "string"},
                "kind": {"type": "string"},
                "source": {"type": "string"},
                "started_at": {"type": "string"},
                "completed_at": {"type": "string"},
                "count": {"type": "integer"},
                "records": {},
                "metrics": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Moonboard Backend",
	Description:      "Spreadsheet ingestion and dashboard metrics API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
