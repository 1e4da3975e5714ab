// Package chat holds the OpenAPI 2.0 document for the chat HTTP API and
// registers it with swag so http-swagger can serve it at /swagger/.
//
// The document is maintained by hand alongside the handler annotations in
// internal/chat/http; update both when a route changes.
package chat

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/tabchat"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/chatsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, online_users, checks", "schema": {"$ref": "#/definitions/chatsdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/chatsdk.HealthResponse"}}
                }
            }
        },
        "/v1/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register with an invite",
                "parameters": [
                    {"description": "Registration", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chatsdk.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "user, token", "schema": {"$ref": "#/definitions/chatsdk.AuthResponse"}},
                    "400": {"description": "Invalid fields or unusable invite", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "404": {"description": "Invite not found", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "409": {"description": "Email or username taken, or invite already used", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "410": {"description": "Invite expired", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chatsdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "user, token", "schema": {"$ref": "#/definitions/chatsdk.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.UserResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/invites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Invites"],
                "summary": "List my invites",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.InviteListResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invites"],
                "summary": "Issue an invite",
                "parameters": [
                    {"description": "Optional invitee email and lifetime", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/chatsdk.InviteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/chatsdk.InviteResponse"}},
                    "400": {"description": "Invalid expiry or email", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "403": {"description": "No invites remaining", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/invites/tree": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Invites"],
                "summary": "Referral tree",
                "parameters": [
                    {"type": "string", "description": "Root user id (admin only when not the caller)", "name": "root", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.ReferralTreeResponse"}},
                    "403": {"description": "Tracing another user requires the admin role", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "404": {"description": "Root user not found", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/invites/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Invites"],
                "summary": "Check an invite code",
                "parameters": [
                    {"type": "string", "description": "Invite code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.InviteValidationResponse"}}
                }
            }
        },
        "/v1/invites/{code}/revoke": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Invites"],
                "summary": "Revoke an invite",
                "parameters": [
                    {"type": "string", "description": "Invite code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Invite belongs to another user", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "404": {"description": "Invite not found", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "409": {"description": "Invite already consumed or revoked", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/admin/bootstrap": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Bootstrap the first administrator",
                "parameters": [
                    {"description": "Secret and admin account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chatsdk.BootstrapRequest"}}
                ],
                "responses": {
                    "201": {"description": "user, token", "schema": {"$ref": "#/definitions/chatsdk.AuthResponse"}},
                    "403": {"description": "Bootstrap secret missing or wrong", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}},
                    "409": {"description": "An administrator already exists", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/admin/config": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Read app config",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.AppConfigResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Update app config",
                "parameters": [
                    {"description": "New default", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chatsdk.AppConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.AppConfigResponse"}},
                    "400": {"description": "Value out of range", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/admin/users/{id}/invites/adjust": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Adjust one user's invites",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Delta", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chatsdk.QuotaAdjustRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.QuotaAdjustResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/chatsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/admin/invites/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Reset every user's invites",
                "parameters": [
                    {"description": "New quota", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/chatsdk.QuotaResetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chatsdk.QuotaResetResponse"}}
                }
            }
        }
    },
    "definitions": {
        "chatsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "chatsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "realtime": {"type": "string"}
            }
        },
        "chatsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/chatsdk.HealthChecks"},
                "online_users": {"type": "integer"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "chatsdk.RegisterRequest": {
            "type": "object",
            "required": ["displayName", "email", "inviteCode", "password", "username"],
            "properties": {
                "displayName": {"type": "string", "maxLength": 50, "minLength": 1},
                "email": {"type": "string"},
                "inviteCode": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "username": {"type": "string", "maxLength": 30, "minLength": 3}
            }
        },
        "chatsdk.LoginRequest": {
            "type": "object",
            "required": ["emailOrUsername", "password"],
            "properties": {
                "emailOrUsername": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "chatsdk.UserResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "displayName": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "invitesRemaining": {"type": "integer"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "chatsdk.UserSummary": {
            "type": "object",
            "properties": {
                "displayName": {"type": "string"},
                "id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "chatsdk.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/chatsdk.UserResponse"}
            }
        },
        "chatsdk.InviteRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "expiresInDays": {"type": "integer", "maximum": 30, "minimum": 1}
            }
        },
        "chatsdk.InviteResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "consumedAt": {"type": "string"},
                "consumedBy": {"type": "string"},
                "createdAt": {"type": "string"},
                "expiresAt": {"type": "string"},
                "id": {"type": "string"},
                "inviteeEmail": {"type": "string"},
                "inviterId": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "chatsdk.InviteListResponse": {
            "type": "object",
            "properties": {
                "invites": {"type": "array", "items": {"$ref": "#/definitions/chatsdk.InviteResponse"}}
            }
        },
        "chatsdk.InviteValidationResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "inviter": {"$ref": "#/definitions/chatsdk.UserSummary"},
                "reason": {"type": "string"},
                "valid": {"type": "boolean"}
            }
        },
        "chatsdk.ReferralNode": {
            "type": "object",
            "properties": {
                "children": {"type": "array", "items": {"$ref": "#/definitions/chatsdk.ReferralNode"}},
                "code": {"type": "string"},
                "cycle": {"type": "boolean"},
                "inviteId": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "chatsdk.ReferralTreeResponse": {
            "type": "object",
            "properties": {
                "invited": {"type": "array", "items": {"$ref": "#/definitions/chatsdk.ReferralNode"}},
                "userId": {"type": "string"}
            }
        },
        "chatsdk.BootstrapRequest": {
            "type": "object",
            "required": ["displayName", "email", "password", "secret", "username"],
            "properties": {
                "displayName": {"type": "string", "maxLength": 50, "minLength": 1},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "secret": {"type": "string"},
                "username": {"type": "string", "maxLength": 30, "minLength": 3}
            }
        },
        "chatsdk.AppConfigRequest": {
            "type": "object",
            "required": ["defaultInvitesPerUser"],
            "properties": {
                "defaultInvitesPerUser": {"type": "integer", "maximum": 100, "minimum": 0}
            }
        },
        "chatsdk.AppConfigResponse": {
            "type": "object",
            "properties": {
                "defaultInvitesPerUser": {"type": "integer"},
                "updatedAt": {"type": "string"}
            }
        },
        "chatsdk.QuotaAdjustRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer", "maximum": 100, "minimum": -100}
            }
        },
        "chatsdk.QuotaAdjustResponse": {
            "type": "object",
            "properties": {
                "invitesRemaining": {"type": "integer"},
                "userId": {"type": "string"}
            }
        },
        "chatsdk.QuotaResetRequest": {
            "type": "object",
            "required": ["value"],
            "properties": {
                "value": {"type": "integer", "maximum": 100, "minimum": 0}
            }
        },
        "chatsdk.QuotaResetResponse": {
            "type": "object",
            "properties": {
                "usersUpdated": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:4000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "TabChat API",
	Description:      "Invite-gated accounts, referral trees and the realtime gateway for TabChat.\n\nTokens are HS256 JWTs. Browsers may rely on the httpOnly \"token\" cookie instead of the header.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
