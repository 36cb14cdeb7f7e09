// Package docs holds the OpenAPI description served at /swagger/*. It is
// maintained by hand alongside the swag annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "Apache 2.0",
            "url": "https://opensource.org/licenses/Apache-2.0"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/news": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "List articles, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Article"}}}
                }
            },
            "post": {
                "description": "Stores an article from caller-supplied fields. Accepts JSON, double-encoded JSON, form, multipart or query payloads.",
                "consumes": ["application/json", "application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Create a news article",
                "parameters": [
                    {"description": "Article fields", "name": "article", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ArticleInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/router.NewsCreatedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.MissingFieldsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/router.ErrorResponse"}}
                }
            }
        },
        "/api/news/featured": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "List featured articles",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Article"}}}
                }
            }
        },
        "/api/news/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["news"],
                "summary": "Get an article",
                "parameters": [
                    {"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Article"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/telegram-news": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Generate and store an article from a URL",
                "parameters": [
                    {"description": "Source URL and optional token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/router.URLRequest"}},
                    {"type": "string", "description": "Shared secret", "name": "token", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Generated but not stored", "schema": {"$ref": "#/definitions/router.URLIngestResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/router.URLIngestResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/router.ErrorResponse"}}
                }
            }
        },
        "/api/generate-article": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Generate an article without storing it",
                "parameters": [
                    {"description": "Source URL", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/router.URLRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.GeneratedArticle"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/router.ErrorResponse"}}
                }
            }
        },
        "/api/telegram-webhook": {
            "post": {
                "description": "Runs URL ingestion in the background for the first link in the message. Always answers 200.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Telegram bot webhook",
                "parameters": [
                    {"type": "string", "description": "Webhook secret", "name": "X-Telegram-Bot-Api-Secret-Token", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.WebhookResponse"}}
                }
            }
        },
        "/api/admin/news/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Update an article",
                "parameters": [
                    {"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to overwrite", "name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ArticlePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Article"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete an article",
                "parameters": [
                    {"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.DeleteResponse"}}
                }
            }
        },
        "/api/admin/news/{id}/image": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Falls back to the default image when the upload fails.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Upload an article image",
                "parameters": [
                    {"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Article"}}
                }
            }
        },
        "/revalidate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Drop cached pages",
                "parameters": [
                    {"type": "string", "default": "/", "description": "Page path", "name": "path", "in": "query"},
                    {"type": "string", "description": "Revalidation secret", "name": "token", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.RevalidateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "domain.Article": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "content": {"type": "string"},
                "category": {"type": "string"},
                "imageUrl": {"type": "string"},
                "sourceUrl": {"type": "string"},
                "featured": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.ArticleInput": {
            "type": "object",
            "required": ["category", "content", "excerpt", "imageUrl", "title"],
            "properties": {
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "category": {"type": "string"},
                "imageUrl": {"type": "string"},
                "content": {"type": "string"},
                "sourceUrl": {"type": "string"},
                "featured": {"type": "boolean"}
            }
        },
        "domain.ArticlePatch": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "content": {"type": "string"},
                "category": {"type": "string"},
                "imageUrl": {"type": "string"},
                "sourceUrl": {"type": "string"},
                "featured": {"type": "boolean"}
            }
        },
        "domain.GeneratedArticle": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "content": {"type": "string"},
                "category": {"type": "string"},
                "imageUrl": {"type": "string"},
                "featured": {"type": "boolean"}
            }
        },
        "router.DeleteResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "id": {"type": "string"}
            }
        },
        "router.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "router.MissingFieldsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "missingFields": {"type": "array", "items": {"type": "string"}},
                "receivedData": {"type": "object", "additionalProperties": true},
                "requiredFields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "router.NewsCreatedResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "newsItem": {"$ref": "#/definitions/domain.Article"}
            }
        },
        "router.RevalidateResponse": {
            "type": "object",
            "properties": {
                "revalidated": {"type": "boolean"},
                "path": {"type": "string"},
                "paths": {"type": "array", "items": {"type": "string"}},
                "now": {"type": "integer"}
            }
        },
        "router.URLIngestResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "article": {},
                "stored": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "router.URLRequest": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "router.WebhookResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "accepted": {"type": "boolean"},
                "url": {"type": "string"},
                "skipped": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "News Desk API",
	Description:      "Ingestion, generation and publishing API for the news site",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
