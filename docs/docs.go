// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

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
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "User login", "operationId": "loginAuth",
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Refresh access token", "operationId": "refreshAuth",
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "User logout", "operationId": "logoutAuth",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "operationId": "getCurrentUserAuth",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/siniestros": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["siniestros"], "summary": "Search claims", "operationId": "listClaims",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/siniestros/{num}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["siniestros"], "summary": "Get claim", "operationId": "getClaim",
                "parameters": [{"type": "integer", "name": "num", "in": "path", "required": true}],
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/siniestros/{num}/reservas": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reservas"], "summary": "List reserve rows", "operationId": "listReserves",
                "parameters": [{"type": "integer", "name": "num", "in": "path", "required": true}],
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["reservas"], "summary": "Add reserve row", "operationId": "addReserveRow",
                "parameters": [{"type": "integer", "name": "num", "in": "path", "required": true}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/siniestros/{num}/reservas/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reservas"], "summary": "Export reserve rows", "operationId": "exportReserves",
                "parameters": [{"type": "integer", "name": "num", "in": "path", "required": true}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        },
        "/siniestros/{num}/reservas/{ramoContable}/{cobertura}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["reservas"], "summary": "Remove reserve row", "operationId": "removeReserveRow",
                "parameters": [
                    {"type": "integer", "name": "num", "in": "path", "required": true},
                    {"type": "string", "name": "ramoContable", "in": "path", "required": true},
                    {"type": "string", "name": "cobertura", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}}
        },
        "/siniestros/{num}/reservas/{ramoContable}/{cobertura}/saldo": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reservas"], "summary": "Coverage balance", "operationId": "getReserveBalance",
                "parameters": [
                    {"type": "integer", "name": "num", "in": "path", "required": true},
                    {"type": "string", "name": "ramoContable", "in": "path", "required": true},
                    {"type": "string", "name": "cobertura", "in": "path", "required": true}
                ],
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/siniestros/{num}/reservas/{ramoContable}/{cobertura}/suma-asegurada": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reservas"], "summary": "Coverage insured sum", "operationId": "getInsuredSum",
                "parameters": [
                    {"type": "integer", "name": "num", "in": "path", "required": true},
                    {"type": "string", "name": "ramoContable", "in": "path", "required": true},
                    {"type": "string", "name": "cobertura", "in": "path", "required": true}
                ],
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/siniestros/{num}/ajustes/validar": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["ajustes"], "summary": "Validate adjustment", "operationId": "validateAdjustments",
                "parameters": [{"type": "integer", "name": "num", "in": "path", "required": true}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/siniestros/{num}/ajustes": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["ajustes"], "summary": "Apply adjustment", "operationId": "applyAdjustments",
                "parameters": [
                    {"type": "integer", "name": "num", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/siniestros/{num}/movimientos": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["movimientos"], "summary": "List movements", "operationId": "listMovements",
                "parameters": [{"type": "integer", "name": "num", "in": "path", "required": true}],
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/siniestros/{num}/movimientos/{mov}/asientos": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["movimientos"], "summary": "List accounting entries", "operationId": "listAccountingEntries",
                "parameters": [
                    {"type": "integer", "name": "num", "in": "path", "required": true},
                    {"type": "integer", "name": "mov", "in": "path", "required": true}
                ],
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/system/info": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["system"], "summary": "Get system information", "operationId": "getSystemInfo",
                "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Siniestros API",
	Description:      "Ajuste de reservas de siniestros: consulta de saldos, validación y registro de ajustes con su asiento contable.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
