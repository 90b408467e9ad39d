// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/eventpulse/internal/logging"
)

// multipartOverhead allows for boundaries and part headers on top of the
// file size limit.
const multipartOverhead = 64 << 10

// UploadFile stores the multipart field "file" and returns its metadata.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.files.MaxSize()+multipartOverhead)
	reader, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart/form-data body", nil)
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed multipart body", nil)
			return
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		info, err := h.files.Save(r.Context(), part.FileName(), part.Header.Get("Content-Type"), claims.UserID, part)
		_ = part.Close()
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "File too large", nil)
			return
		}
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		info.FileURL = absoluteURL(r, info.FileURL)
		respondData(w, http.StatusCreated, info, nil, start)
		return
	}

	respondError(w, http.StatusBadRequest, "NO_FILE", "No file received", nil)
}

// DownloadFile streams a stored file as an attachment. Range requests are
// supported.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	f, info, err := h.files.Open(r.Context(), name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("failed to close download")
		}
	}()

	w.Header().Set("Content-Type", info.FileType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.FileName}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, info.FileName, info.UploadedAt, f)
}

// absoluteURL resolves a root-relative path against the request host.
func absoluteURL(r *http.Request, path string) string {
	if !strings.HasPrefix(path, "/") || r.Host == "" {
		return path
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
