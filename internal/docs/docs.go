// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go -o internal/docs`.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "parameters": [
                    {"type": "string", "description": "Owner; defaults to the configured user", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Categories with nested questions", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Category"}}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"description": "Category details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Category created", "schema": {"$ref": "#/definitions/models.Category"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "put": {
                "security": [{"AdminKey": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Rename a category",
                "parameters": [
                    {"type": "string", "description": "Category ID", "name": "id", "in": "path", "required": true},
                    {"description": "New name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateCategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Category updated", "schema": {"$ref": "#/definitions/models.Category"}},
                    "404": {"description": "Category not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"AdminKey": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Delete a category",
                "parameters": [
                    {"type": "string", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Delete result", "schema": {"$ref": "#/definitions/handlers.DeleteResponse"}}}
            }
        },
        "/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "List questions",
                "parameters": [
                    {"type": "string", "description": "Category ID", "name": "categoryId", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "Questions", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Question"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Create a question",
                "parameters": [
                    {"description": "Question details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Question created", "schema": {"$ref": "#/definitions/models.Question"}},
                    "404": {"description": "Category not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recordings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recordings"],
                "summary": "List recordings",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "questionId", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "Recordings", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Recording"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recordings"],
                "summary": "Upload a recording",
                "parameters": [
                    {"description": "Recording upload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateRecordingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Recording created", "schema": {"$ref": "#/definitions/models.Recording"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Payload too large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recordings/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recordings"],
                "summary": "Get a recording",
                "parameters": [
                    {"type": "string", "description": "Recording ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Recording", "schema": {"$ref": "#/definitions/models.Recording"}},
                    "404": {"description": "Recording or audio file not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"AdminKey": []}],
                "produces": ["application/json"],
                "tags": ["recordings"],
                "summary": "Delete a recording",
                "parameters": [
                    {"type": "string", "description": "Recording ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Delete result", "schema": {"$ref": "#/definitions/handlers.DeleteResponse"}}}
            }
        },
        "/admin/wipe": {
            "post": {
                "security": [{"AdminKey": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Wipe all data",
                "responses": {"200": {"description": "Rows removed", "schema": {"$ref": "#/definitions/services.WipeResult"}}}
            }
        },
        "/admin/backfill": {
            "post": {
                "security": [{"AdminKey": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Backfill recording durations",
                "responses": {"200": {"description": "Backfill summary", "schema": {"$ref": "#/definitions/services.BackfillResult"}}}
            }
        }
    },
    "definitions": {
        "handlers.CreateCategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "userId": {"type": "string"}}
        },
        "handlers.UpdateCategoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}}
        },
        "handlers.CreateQuestionRequest": {
            "type": "object",
            "required": ["categoryId", "text"],
            "properties": {"categoryId": {"type": "string"}, "text": {"type": "string"}}
        },
        "handlers.CreateRecordingRequest": {
            "type": "object",
            "required": ["audioData", "questionId"],
            "properties": {
                "questionId": {"type": "string"},
                "audioData": {"type": "string", "example": "data:audio/webm;codecs=opus;base64,GkXfo..."},
                "duration": {"type": "number"}
            }
        },
        "handlers.DeleteResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "boolean"}}
        },
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handlers.ErrorDetail"}}
        },
        "models.Category": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "user_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/models.Question"}}
            }
        },
        "models.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "category_id": {"type": "string"},
                "text": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.Recording": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "question_id": {"type": "string"},
                "audio_url": {"type": "string"},
                "duration": {"type": "number"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "services.BackfillResult": {
            "type": "object",
            "properties": {
                "scanned": {"type": "integer"},
                "updated": {"type": "integer"},
                "missing": {"type": "integer"},
                "failed": {"type": "integer"}
            }
        },
        "services.WipeResult": {
            "type": "object",
            "properties": {
                "recordings": {"type": "integer"},
                "questions": {"type": "integer"},
                "categories": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "AdminKey": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3002",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Intabyu API",
	Description:      "Interview practice: categories, questions and recorded answers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
