package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/spieletreff/wachhund/cmd/panel/config"
	"github.com/spieletreff/wachhund/cmd/panel/monitoring"
	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

// maxUploadBytes caps document uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// uploadDocumentHandler stores a file uploaded by the user and records its
// metadata. The file lands in the documents directory under a generated name.
func (a *App) uploadDocumentHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "Keine Datei ausgewählt.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, "Keine Datei ausgewählt.")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			a.Warn("Error closing uploaded file", slog.String(logging.KeyError, err.Error()))
		}
	}()

	if header.Filename == "" {
		a.writeMessage(w, http.StatusBadRequest, "Keine Datei ausgewählt.")
		return
	}

	if err := os.MkdirAll(config.DocsDir, 0o755); err != nil {
		a.Error("Error creating documents directory", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving document")
		return
	}

	storedName := fmt.Sprintf("%s_%s%s", actor.ID, strings.ReplaceAll(uuid.NewString(), "-", ""), filepath.Ext(header.Filename))
	destPath := filepath.Join(config.DocsDir, storedName)

	dest, err := os.Create(destPath)
	if err != nil {
		a.Error("Error creating document file", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving document")
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		_ = dest.Close()
		_ = os.Remove(destPath)
		a.Error("Error writing document file", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving document")
		return
	}
	if err := dest.Close(); err != nil {
		a.Error("Error closing document file", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving document")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc := &entities.Document{
		ID:               uuid.NewString(),
		Username:         actor.Username,
		OriginalFilename: header.Filename,
		StoredFilename:   storedName,
		ContentType:      contentType,
		UploadedBy:       actor.Username,
		UploadedAt:       custom.Now(),
	}
	if err := a.documents.SaveDocument(r.Context(), doc); err != nil {
		_ = os.Remove(destPath)
		a.Error("Error saving document metadata", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving document")
		return
	}

	monitoring.DocumentUploads.Inc()
	a.Info("Document uploaded",
		slog.String("document_id", doc.ID),
		slog.String("username", actor.Username),
		slog.String("filename", header.Filename))
	a.writeJSON(w, http.StatusCreated, doc)
}

// listDocumentsHandler returns the caller's documents. Admins may list
// another user's documents with the username query parameter.
func (a *App) listDocumentsHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	username := actor.Username
	if requested := strings.TrimSpace(r.URL.Query().Get("username")); requested != "" {
		if actor.Role != entities.RoleAdmin {
			a.writeMessage(w, http.StatusForbidden, "Kein Zugriff.")
			return
		}
		username = requested
	}

	docs, err := a.documents.ListDocumentsByUser(r.Context(), username)
	if err != nil {
		a.Error("Error listing documents", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing documents")
		return
	}
	a.writeJSON(w, http.StatusOK, docs)
}

// downloadDocumentHandler serves the file behind a document. Admins may
// download any document, everyone else only their own.
func (a *App) downloadDocumentHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	id := mux.Vars(r)["id"]

	doc, err := a.documents.GetDocument(r.Context(), id)
	if errors.Is(err, dataaccess.ErrNotFound) {
		a.writeMessage(w, http.StatusNotFound, "Dokument nicht gefunden.")
		return
	} else if err != nil {
		a.Error("Error getting document", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error getting document")
		return
	}

	if actor.Role != entities.RoleAdmin && actor.Username != doc.Username {
		a.writeMessage(w, http.StatusForbidden, "Kein Zugriff auf dieses Dokument.")
		return
	}

	filePath := filepath.Join(config.DocsDir, doc.StoredFilename)
	if _, err := os.Stat(filePath); err != nil {
		a.writeMessage(w, http.StatusNotFound, "Datei nicht mehr vorhanden.")
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalFilename))
	http.ServeFile(w, r, filePath)
}

// deleteDocumentHandler removes a document and its file. Only the owner may
// delete a document.
func (a *App) deleteDocumentHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	id := mux.Vars(r)["id"]

	doc, err := a.documents.GetDocument(r.Context(), id)
	if errors.Is(err, dataaccess.ErrNotFound) {
		a.writeMessage(w, http.StatusNotFound, "Dokument nicht gefunden.")
		return
	} else if err != nil {
		a.Error("Error getting document", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error getting document")
		return
	}

	if actor.Username != doc.Username {
		a.writeMessage(w, http.StatusForbidden, "Kein Zugriff auf dieses Dokument.")
		return
	}

	filePath := filepath.Join(config.DocsDir, doc.StoredFilename)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		a.Warn("Error removing document file",
			slog.String("document_id", doc.ID),
			slog.String(logging.KeyError, err.Error()))
	}

	if err := a.documents.DeleteDocument(r.Context(), id); err != nil {
		a.Error("Error deleting document metadata", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error deleting document")
		return
	}

	a.Info("Document deleted",
		slog.String("document_id", doc.ID),
		slog.String("username", actor.Username))
	a.writeMessage(w, http.StatusOK, "Dokument wurde gelöscht.")
}
