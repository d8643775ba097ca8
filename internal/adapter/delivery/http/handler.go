package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"golinks/internal/entity"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type redirectRegistry interface {
	Register(ctx context.Context, caller, shortPath, destination, label string) (*entity.Redirect, error)
	CheckAvailability(ctx context.Context, shortPath string) (bool, error)
	Resolve(ctx context.Context, shortPath string) (*entity.Redirect, error)
	Stats(ctx context.Context, shortPath string) (*entity.Redirect, error)
}

type redirectHandler struct {
	registry redirectRegistry
	validate *validator.Validate
}

func newRedirectHandler(registry redirectRegistry, validate *validator.Validate) *redirectHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &redirectHandler{
		registry: registry,
		validate: validate,
	}
}

// lastPathSegment extracts the short path from a request path: the final
// non-empty segment, so "/abc", "/abc/" and "/go/abc" all resolve "abc".
func lastPathSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// redirect is the public resolve endpoint. Errors stay plain text here; JSON
// is reserved for the API routes.
func (h *redirectHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortPath := lastPathSegment(r.URL.Path)
	if shortPath == "" {
		http.Error(w, "missing short path", http.StatusBadRequest)
		return
	}

	redirect, err := h.registry.Resolve(r.Context(), shortPath)
	if err != nil {
		if errors.Is(err, entity.ErrRedirectNotFound) {
			http.Error(w, "short path not found", http.StatusNotFound)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		http.Error(w, "server error occurred", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, redirect.Destination, http.StatusFound)
}

func (h *redirectHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	redirect, err := h.registry.Register(r.Context(), callerID(r.Context()), req.ShortPath, req.Destination, req.Label)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrMissingCaller):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, unauthenticatedResponse)
		case errors.Is(err, entity.ErrShortPathExists):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, shortPathTakenResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, createLinkResponse{
		Success:   true,
		ShortPath: redirect.ShortPath,
		Message:   "short link created",
	})
}

func (h *redirectHandler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	shortPath := chi.URLParam(r, "shortPath")

	exists, err := h.registry.CheckAvailability(r.Context(), shortPath)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, availabilityResponse{Exists: exists})
}

func (h *redirectHandler) linkStats(w http.ResponseWriter, r *http.Request) {
	shortPath := chi.URLParam(r, "shortPath")

	redirect, err := h.registry.Stats(r.Context(), shortPath)
	if err != nil {
		if errors.Is(err, entity.ErrRedirectNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, shortPathNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkStatsResponse(redirect))
}
