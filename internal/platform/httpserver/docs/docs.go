// Package docs registers the swagger document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {"description": "{{escape .Description}}", "title": "{{.Title}}", "contact": {}, "version": "{{.Version}}"},
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/moderation/v1/analyze": {
            "post": {"tags": ["moderation"], "summary": "Score content without persisting it", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"]}
        },
        "/api/moderation/v1/screen": {
            "post": {"tags": ["moderation"], "summary": "Run the ingestion gate for a submission", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"]}
        },
        "/api/moderation/v1/submissions": {
            "post": {"tags": ["moderation"], "summary": "Analyse and queue a submission", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"]}
        },
        "/api/moderation/v1/queue": {
            "get": {"tags": ["moderation"], "summary": "List queue items ordered by priority then age", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}}
        },
        "/api/moderation/v1/queue/{item_id}": {
            "get": {"tags": ["moderation"], "summary": "Get one queue item", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "parameters": [{"type": "string", "name": "item_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/queue/{item_id}/claim": {
            "post": {"tags": ["moderation"], "summary": "Claim a queue item for review", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "item_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/queue/{item_id}/escalate": {
            "post": {"tags": ["moderation"], "summary": "Escalate a queue item", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "item_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/queue/{item_id}/reports": {
            "post": {"tags": ["moderation"], "summary": "Report queued content", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "item_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/queue/{item_id}/action": {
            "post": {"tags": ["moderation"], "summary": "Record a moderator decision", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "item_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/queue/bulk-action": {
            "post": {"tags": ["moderation"], "summary": "Apply one decision to many items", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"]}
        },
        "/api/moderation/v1/actions/{action_id}/reverse": {
            "post": {"tags": ["moderation"], "summary": "Reverse a moderation action", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "action_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/appeals": {
            "post": {"tags": ["appeals"], "summary": "Appeal a moderation action", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"]},
            "get": {"tags": ["appeals"], "summary": "List appeals", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}}
        },
        "/api/moderation/v1/appeals/{appeal_id}": {
            "get": {"tags": ["appeals"], "summary": "Get one appeal", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "parameters": [{"type": "string", "name": "appeal_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/appeals/{appeal_id}/review": {
            "post": {"tags": ["appeals"], "summary": "Start reviewing an appeal", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "appeal_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/appeals/{appeal_id}/resolve": {
            "post": {"tags": ["appeals"], "summary": "Resolve an appeal", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "appeal_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/appeals/{appeal_id}/escalate": {
            "post": {"tags": ["appeals"], "summary": "Escalate an appeal", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "appeal_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/appeals/{appeal_id}/messages": {
            "post": {"tags": ["appeals"], "summary": "Add a message to an appeal thread", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "appeal_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/statistics": {
            "get": {"tags": ["moderation"], "summary": "Queue, action and appeal counts", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}}
        },
        "/api/moderation/v1/users/{user_id}/history": {
            "get": {"tags": ["moderation"], "summary": "Moderation history of a user", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}]}
        },
        "/api/moderation/v1/filters": {
            "post": {"tags": ["filters"], "summary": "Create a custom filter", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"]},
            "get": {"tags": ["filters"], "summary": "List custom filters", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}}
        },
        "/api/moderation/v1/filters/{name}": {
            "patch": {"tags": ["filters"], "summary": "Update a custom filter", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}]}
        },
        "/api/reputation/v1/users/{user_id}": {
            "get": {"tags": ["reputation"], "summary": "Get a user's reputation", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}]}
        },
        "/api/reputation/v1/users/{user_id}/penalties": {
            "post": {"tags": ["reputation"], "summary": "Apply a moderation penalty", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}}, "consumes": ["application/json"], "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}]}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Quad moderation API",
	Description:      "Content analysis, moderation queue, decisions, appeals and reputation penalties.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
