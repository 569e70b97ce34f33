package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	dochandler "github.com/docvault/docvault/internal/document/handler"
	"github.com/docvault/docvault/internal/document/repository"
	docservice "github.com/docvault/docvault/internal/document/service"
	"github.com/docvault/docvault/internal/oidc"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/pkg/middleware"
)

// Standalone document service for frontend development: memory-backed
// metadata, local uploads directory and payload-only token parsing. Not for
// production use.
func main() {
	port := os.Getenv("DOC_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	blobs, err := storage.NewLocalStore(uploadDir)
	if err != nil {
		log.Fatalf("local storage: %v", err)
	}
	svc := docservice.New(repository.NewMemoryRepo(), blobs)

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api", middleware.AuthMiddleware(oidc.NewInsecureVerifier()))
	dochandler.RegisterDocumentRoutes(api, svc)

	log.Printf("docserver listening on :%s (dev mode, insecure tokens)", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
