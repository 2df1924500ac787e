// Package docs holds the OpenAPI document served at /swagger/*.
// Regenerate with `swag init -g cmd/server/main.go`.
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ValidationErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/token/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh access token",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RefreshResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout user",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "205": {"description": "Reset Content", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UserView"}}
                }
            }
        },
        "/profile/{kind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get own profile",
                "parameters": [
                    {"enum": ["student", "lecturer", "registrar"], "type": "string", "description": "Profile kind", "name": "kind", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Profile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update own profile",
                "parameters": [
                    {"enum": ["student", "lecturer", "registrar"], "type": "string", "description": "Profile kind", "name": "kind", "in": "path", "required": true},
                    {"description": "Profile fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Profile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/issues": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Submit an issue",
                "parameters": [
                    {"description": "Issue", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateIssueRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Issue"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/issues/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "List own issues",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Issue"}}}
                }
            }
        },
        "/issues/resolved": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "List own resolved issues",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Issue"}}}
                }
            }
        },
        "/issues/count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Issue totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.IssueCounts"}}
                }
            }
        },
        "/issues/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Get an issue",
                "parameters": [
                    {"type": "integer", "description": "Issue ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Issue"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/issues/{id}/assign": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Assign an issue to a lecturer",
                "parameters": [
                    {"type": "integer", "description": "Issue ID", "name": "id", "in": "path", "required": true},
                    {"description": "Lecturer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AssignIssueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/issues/{id}/resolve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Resolve an assigned issue",
                "parameters": [
                    {"type": "integer", "description": "Issue ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "handler.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["password", "role", "username"],
            "properties": {
                "username": {"type": "string", "maxLength": 150, "minLength": 3},
                "password": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "lecturer", "registrar"]},
                "student_number": {"type": "string"},
                "programme": {"type": "string"},
                "year_of_study": {"type": "integer"},
                "staff_number": {"type": "string"},
                "department": {"type": "string"},
                "college": {"type": "string"}
            }
        },
        "handler.RegisterResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user_id": {"type": "integer"}, "username": {"type": "string"}}
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "loginType": {"type": "string", "enum": ["student", "lecturer", "registrar"]}
            }
        },
        "handler.LoginResponse": {
            "type": "object",
            "properties": {
                "refresh": {"type": "string"},
                "access": {"type": "string"},
                "token_type": {"type": "string"},
                "user": {"$ref": "#/definitions/model.UserView"}
            }
        },
        "handler.RefreshRequest": {
            "type": "object",
            "properties": {"refresh": {"type": "string"}}
        },
        "handler.RefreshResponse": {
            "type": "object",
            "properties": {"access": {"type": "string"}}
        },
        "handler.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "student_number": {"type": "string"},
                "programme": {"type": "string"},
                "year_of_study": {"type": "integer"},
                "staff_number": {"type": "string"},
                "department": {"type": "string"},
                "college": {"type": "string"}
            }
        },
        "handler.CreateIssueRequest": {
            "type": "object",
            "required": ["description", "title"],
            "properties": {
                "title": {"type": "string", "maxLength": 255},
                "description": {"type": "string"},
                "category": {"type": "string", "enum": ["missing_marks", "appeal", "correction", "other"]},
                "course_code": {"type": "string", "maxLength": 30}
            }
        },
        "handler.AssignIssueRequest": {
            "type": "object",
            "properties": {"lecturer_id": {"type": "integer"}}
        },
        "model.UserView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "model.Profile": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/model.UserView"},
                "student": {"type": "object"},
                "lecturer": {"type": "object"},
                "registrar": {"type": "object"}
            }
        },
        "model.Issue": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "submitted_by": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "course_code": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "assigned", "resolved"]},
                "assigned_lecturer": {"type": "integer"},
                "assigned_at": {"type": "string"},
                "resolved_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.IssueCounts": {
            "type": "object",
            "properties": {
                "total_issues": {"type": "integer"},
                "resolved_issues": {"type": "integer"},
                "pending_issues": {"type": "integer"},
                "assigned_issues": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Academic Issue Tracking API",
	Description:      "Students submit academic issues, registrars assign them to lecturers, lecturers resolve them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
