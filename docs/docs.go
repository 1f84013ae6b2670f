// Package docs registers the OpenAPI document served at /swagger.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new account", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current account", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Revoke the current token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/campaigns": {
            "get": {"tags": ["campaigns"], "summary": "List campaigns", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["campaigns"], "summary": "Create a campaign", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/campaigns/{id}": {
            "get": {"tags": ["campaigns"], "summary": "Get a campaign", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["campaigns"], "summary": "Update a campaign", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/referrals": {
            "get": {"tags": ["referrals"], "summary": "List referrals", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["referrals"], "summary": "Create a referral", "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/referrals/campaign/{campaignId}": {"get": {"tags": ["referrals"], "summary": "List referrals for a campaign", "parameters": [{"type": "string", "name": "campaignId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/referrals/code/{code}": {"get": {"tags": ["referrals"], "summary": "Get a referral by code", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/referrals/click/{code}": {"put": {"tags": ["referrals"], "summary": "Record a click", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "429": {"description": "Too Many Requests"}}}},
        "/referrals/convert/{code}": {"put": {"tags": ["referrals"], "summary": "Record a conversion", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "429": {"description": "Too Many Requests"}}}},
        "/tasks": {
            "get": {"tags": ["tasks"], "summary": "List tasks", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tasks"], "summary": "Create a task", "responses": {"201": {"description": "Created"}}}
        },
        "/tasks/user/{userId}": {"get": {"tags": ["tasks"], "summary": "List tasks for a user", "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/tasks/complete/{id}": {"put": {"tags": ["tasks"], "summary": "Complete a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/users": {
            "get": {"tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["users"], "summary": "Create a user profile", "responses": {"201": {"description": "Created"}}}
        },
        "/users/{id}": {"get": {"tags": ["users"], "summary": "Get a user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/analytics": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Ledger summary", "parameters": [{"type": "string", "name": "campaignId", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/analytics/campaigns": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Per-campaign breakdown", "responses": {"200": {"description": "OK"}}}},
        "/analytics/cohorts": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Referrals grouped by creation period", "parameters": [{"type": "string", "name": "period", "in": "query"}, {"type": "integer", "name": "count", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/analytics/export": {"get": {"security": [{"BearerAuth": []}], "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "tags": ["analytics"], "summary": "Download the campaign report", "responses": {"200": {"description": "OK"}}}},
        "/chatbot/welcome": {"get": {"tags": ["chatbot"], "summary": "Welcome message", "responses": {"200": {"description": "OK"}}}},
        "/chatbot/respond": {"post": {"tags": ["chatbot"], "summary": "Reply to a message", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}}
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
	Schemes:          []string{},
	Title:            "ReferralHub API",
	Description:      "Referral campaigns, tracking links and conversion analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
