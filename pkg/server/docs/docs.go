// Package docs 课程管理接口的 OpenAPI 描述，注册到 swag 后由 /swagger/*any 提供
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
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/validate/{tab}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Validate one tab of the course form",
                "parameters": [
                    {"type": "string", "name": "tab", "in": "path", "required": true},
                    {"name": "form", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/validator.Result"}},
                    "400": {"description": "Malformed body"},
                    "404": {"description": "Unknown tab"}
                }
            }
        },
        "/api/v1/fields/separate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Coerce form values and split them by backend resource",
                "parameters": [
                    {"name": "form", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/form.Buckets"}}
                }
            }
        },
        "/api/v1/courses/{uuid}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Validate and save a course",
                "parameters": [
                    {"type": "string", "name": "uuid", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.SaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved"},
                    "400": {"description": "Malformed request"},
                    "404": {"description": "Course not found"},
                    "422": {"description": "Validation failed"},
                    "502": {"description": "Backend call failed"}
                }
            }
        },
        "/api/v1/courses/{uuid}/logs": {
            "get": {
                "produces": ["application/json"],
                "summary": "List save attempts for a course, newest first",
                "parameters": [
                    {"type": "string", "name": "uuid", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "validator.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"},
                "type": {"type": "string"},
                "key": {"type": "string"},
                "param": {"type": "string"}
            }
        },
        "validator.Result": {
            "type": "object",
            "properties": {
                "is_valid": {"type": "boolean"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/validator.FieldError"}}
            }
        },
        "form.Buckets": {
            "type": "object",
            "properties": {
                "course": {"type": "object"},
                "settings": {"type": "object"},
                "pricing": {"type": "object"}
            }
        },
        "server.SaveRequest": {
            "type": "object",
            "required": ["form"],
            "properties": {
                "form": {"type": "object"},
                "selections": {
                    "type": "object",
                    "properties": {
                        "eligibilities": {"type": "array", "items": {"type": "string"}},
                        "instructors": {"type": "array", "items": {"type": "string"}},
                        "accreditation_partners": {"type": "array", "items": {"type": "string"}},
                        "clinical_observership_partners": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo 文档元信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Course Admin API",
	Description:      "Validation, field routing and save orchestration for course catalog forms.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
