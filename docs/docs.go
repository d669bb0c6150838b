// Package docs holds the OpenAPI description served under /swagger.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/user"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "List active habits",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/habit"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Create a habit",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/habitRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/habit"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/habits/sync": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Habits changed since last_sync, tombstones included",
                "parameters": [{"in": "query", "name": "last_sync", "type": "string", "format": "date-time"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/habits/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Partially update a habit (optimistic locking on version)",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/habitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/habit"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Soft-delete a habit",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/habits/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["history"],
                "summary": "Mark a habit as done for a day (today by default)",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/markRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/historyEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/habits/{id}/uncomplete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["history"],
                "summary": "Mark a habit as not done for a day",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/markRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/historyEntry"}}}
            }
        },
        "/habits/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["history"],
                "summary": "Completion history, oldest day first",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/historyEntry"}}}}
            }
        },
        "/habits/{id}/streaks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["history"],
                "summary": "Current and longest streak as of today",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/streaks"}}}
            }
        },
        "/journals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["journals"],
                "summary": "List journal entries, newest first",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/journal"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["journals"],
                "summary": "Write a free-form or prompted entry",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/journalRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/journal"}}}
            }
        },
        "/journals/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["journals"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/journal"}}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["journals"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/journalRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/journal"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["journals"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/stats/weekly": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["stats"],
                "summary": "Completion stats for a date range (last 7 days by default)",
                "parameters": [
                    {"in": "query", "name": "start_date", "type": "string", "format": "date"},
                    {"in": "query", "name": "end_date", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "error": {"type": "object", "properties": {"error": {"type": "string"}, "message": {"type": "string"}}},
        "registerRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "user": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "display_name": {"type": "string"}
            }
        },
        "loginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/user"}}
        },
        "habitRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "colour": {"type": "string"},
                "habit_type": {"type": "string", "enum": ["standard", "trigger-action"]},
                "trigger": {"type": "string"},
                "action": {"type": "string"},
                "version": {"type": "integer"}
            }
        },
        "habit": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "colour": {"type": "string"},
                "habit_type": {"type": "string"},
                "trigger": {"type": "string"},
                "action": {"type": "string"},
                "current_streak": {"type": "integer"},
                "longest_streak": {"type": "integer"},
                "version": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "deleted_at": {"type": "string", "format": "date-time"}
            }
        },
        "markRequest": {"type": "object", "properties": {"date": {"type": "string", "format": "date"}}},
        "historyEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "habit_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "completed": {"type": "boolean"}
            }
        },
        "streaks": {
            "type": "object",
            "properties": {
                "habit_id": {"type": "string"},
                "current_streak": {"type": "integer"},
                "longest_streak": {"type": "integer"}
            }
        },
        "journalRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"title": {"type": "string"}, "content": {"type": "string"}, "prompt": {"type": "string"}}
        },
        "journal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "prompt": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Streaks API",
	Description:      "Habits, completion history, streaks and journals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
