package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docvault — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the document and account endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docvault", "version": "v0.1.0" },
  "paths": {
    "/api/docs/upload": {
      "post": {
        "summary": "Upload a document (multipart field 'file'; pdf, doc, docx, jpg, jpeg, png)",
        "responses": { "201": { "description": "document created" }, "400": { "description": "missing file or unsupported type" } }
      }
    },
    "/api/docs/mydocs": {
      "get": { "summary": "List the caller's documents, newest first", "responses": { "200": { "description": "array of documents" } } }
    },
    "/api/docs/download/{id}": {
      "get": { "summary": "Download a document under its original file name", "responses": { "200": { "description": "binary stream" }, "403": { "description": "not the owner" }, "404": { "description": "document or file missing" } } }
    },
    "/api/docs/{id}": {
      "delete": { "summary": "Delete a document", "responses": { "200": { "description": "deleted" }, "403": { "description": "not the owner" }, "404": { "description": "not found" } } }
    },
    "/api/users/me": {
      "get": { "summary": "Get (and lazily create) the caller's account", "responses": { "200": { "description": "user" } } }
    },
    "/api/users/update": {
      "put": { "summary": "Update the caller's name/email", "responses": { "200": { "description": "updated user" }, "404": { "description": "user not found" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Exchange an identity-provider ID token for local tokens", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid id token" } } }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
