package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Research Guide Rendering API",
        "description": "Renders research project drafts to downloadable PDF documents.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Research", "description": "Research project rendering"},
        {"name": "Operations", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/research/generate": {
            "post": {
                "tags": ["Research"],
                "summary": "Render a research project to PDF",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "description": "Project sections",
                        "schema": {"$ref": "#/definitions/ResearchProject"}
                    }
                ],
                "responses": {
                    "200": {"description": "Rendered", "schema": {"$ref": "#/definitions/GenerateResponse"}},
                    "422": {"description": "Invalid sections", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Rendering failed", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/research/download/{file}": {
            "get": {
                "tags": ["Research"],
                "summary": "Download a rendered research project",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "file", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "type": "string", "description": "Signed token, when downloads are signed"}
                ],
                "responses": {
                    "200": {"description": "PDF document", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Unknown document", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Operations"],
                "summary": "Rendering counters",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MetricsSnapshot"}}
                }
            }
        }
    },
    "definitions": {
        "ResearchProject": {
            "type": "object",
            "required": ["problema", "obj_general", "obj_especificos", "marco", "metodologia", "resultados", "conclusiones", "referencias"],
            "properties": {
                "problema": {"type": "string"},
                "obj_general": {"type": "string"},
                "obj_especificos": {"type": "string"},
                "marco": {"type": "string"},
                "metodologia": {"type": "string"},
                "resultados": {"type": "string"},
                "conclusiones": {"type": "string"},
                "referencias": {"type": "string"}
            }
        },
        "GenerateResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "file_path": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "MetricsSnapshot": {
            "type": "object",
            "properties": {
                "requests_total": {"type": "integer"},
                "average_request_duration_ms": {"type": "number"},
                "documents_rendered": {"type": "integer"},
                "documents_failed": {"type": "integer"},
                "files_cleaned": {"type": "integer"},
                "average_render_duration_ms": {"type": "number"},
                "goroutines": {"type": "integer"},
                "generated_at": {"type": "string", "format": "date-time"}
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
