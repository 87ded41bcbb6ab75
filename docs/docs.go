// Package docs holds the OpenAPI document of the points ledger HTTP API and
// registers it with swag so echo-swagger can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "A dependency failed its ping"}
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue operator token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{
                    "in": "body",
                    "name": "body",
                    "required": true,
                    "schema": {"$ref": "#/definitions/tokenRequest"}
                }],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tokenResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/v1/leaderboard": {
            "get": {
                "tags": ["ledger"],
                "summary": "Leaderboard",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "limit", "type": "integer", "required": false}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/leaderboardResponse"}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/error"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Own balance",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/balanceResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/error"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/v1/adjustments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Adjust a balance",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{
                    "in": "body",
                    "name": "body",
                    "required": true,
                    "schema": {"$ref": "#/definitions/adjustRequest"}
                }],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adjustResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/error"}},
                    "403": {"description": "Not privileged", "schema": {"$ref": "#/definitions/error"}},
                    "404": {"description": "Target not found", "schema": {"$ref": "#/definitions/error"}},
                    "422": {"description": "Invalid amount", "schema": {"$ref": "#/definitions/error"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/v1/ledger": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Export ledger",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Persisted layout keyed by identity",
                        "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/profile"}}
                    },
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/error"}},
                    "403": {"description": "Operator role required", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/telegram/webhook": {
            "post": {
                "tags": ["telegram"],
                "summary": "Telegram webhook",
                "consumes": ["application/json"],
                "responses": {
                    "200": {"description": "Accepted"},
                    "400": {"description": "Invalid update", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Bad secret token", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        }
    },
    "definitions": {
        "error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "profile": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "points": {"type": "integer"}}
        },
        "tokenRequest": {
            "type": "object",
            "required": ["actor_id", "password"],
            "properties": {"actor_id": {"type": "integer"}, "password": {"type": "string"}}
        },
        "tokenResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "balanceResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "points": {"type": "integer"},
                "created": {"type": "boolean"}
            }
        },
        "adjustRequest": {
            "type": "object",
            "required": ["target", "delta"],
            "properties": {
                "target": {"type": "string", "description": "display name or numeric id"},
                "delta": {"type": "integer", "description": "positive credits, negative debits"}
            }
        },
        "adjustResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "delta": {"type": "integer"},
                "applied": {"type": "integer"},
                "points": {"type": "integer"}
            }
        },
        "rankedEntry": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "points": {"type": "integer"}
            }
        },
        "leaderboardResponse": {
            "type": "object",
            "properties": {"entries": {"type": "array", "items": {"$ref": "#/definitions/rankedEntry"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "\"Bearer <operator jwt>\" or \"tma <mini app init data>\""
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Points Ledger API",
	Description:      "Balances, adjustments and leaderboard of the bounty points ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
