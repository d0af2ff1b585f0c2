package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes created inside an exclusive time window
//	@Tags			notes
//	@Produce		json
//	@Param			workspace	query		string	false	"Workspace root (defaults to the first configured root)"
//	@Param			createdKey	query		string	false	"Frontmatter key holding the created date"
//	@Param			updatedKey	query		string	false	"Frontmatter key holding the updated date"
//	@Param			start		query		int		false	"Exclusive lower bound, ms since epoch"
//	@Param			end			query		int		false	"Exclusive upper bound, ms since epoch"
//	@Param			groupId		query		int		false	"Only notes of this group"
//	@Success		200			{array}		Note
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := int64Param(q, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := int64Param(q, "end")
	if err != nil {
		writeError(w, err)
		return
	}
	groupID, err := uint32Param(q, "groupId")
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := h.svc.ListNotes(r.Context(), noteservice.NotesParams{
		Workspace:  q.Get("workspace"),
		CreatedKey: q.Get("createdKey"),
		UpdatedKey: q.Get("updatedKey"),
		Start:      start,
		End:        end,
		GroupID:    groupID,
	})
	if err != nil {
		slog.Error("list notes failed", slog.String("workspace", q.Get("workspace")), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// ListGroups handles GET /api/groups.
//
//	@Summary		List the groups that contain at least one note
//	@Tags			groups
//	@Produce		json
//	@Param			workspace	query		string	false	"Workspace root"
//	@Success		200			{array}		Group
//	@Security		BearerAuth
//	@Router			/groups [get]
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ws := r.URL.Query().Get("workspace")
	groups, err := h.svc.ListGroups(r.Context(), ws)
	if err != nil {
		slog.Error("list groups failed", slog.String("workspace", ws), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// searchRequest distinguishes an absent pattern from the empty one, which
// is a valid expression.
type searchRequest struct {
	Pattern *string
}

func (s *searchRequest) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Pattern, validation.NotNil),
	)
}

// Search handles GET /api/search.
//
//	@Summary		Regex search over note file names and content lines
//	@Tags			search
//	@Produce		json
//	@Param			pattern		query		string	true	"Regular expression, used verbatim"
//	@Param			workspace	query		string	false	"Workspace root"
//	@Param			createdKey	query		string	false	"Frontmatter key holding the created date"
//	@Param			updatedKey	query		string	false	"Frontmatter key holding the updated date"
//	@Param			start		query		int		false	"Inclusive lower bound, ms since epoch"
//	@Param			end			query		int		false	"Inclusive upper bound, ms since epoch"
//	@Success		200			{array}		SearchItem
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var req searchRequest
	if q.Has("pattern") {
		pattern := q.Get("pattern")
		req.Pattern = &pattern
	}
	if err := req.Validate(); err != nil {
		writeError(w, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err))
		return
	}
	start, err := int64Param(q, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := int64Param(q, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.svc.Search(r.Context(), noteservice.SearchParams{
		Pattern:    *req.Pattern,
		Workspace:  q.Get("workspace"),
		CreatedKey: q.Get("createdKey"),
		UpdatedKey: q.Get("updatedKey"),
		Start:      start,
		End:        end,
	})
	if err != nil {
		slog.Error("search failed", slog.String("pattern", *req.Pattern), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func int64Param(q url.Values, key string) (*int64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", apperr.ErrInvalidArgument, key)
	}
	return &v, nil
}

func uint32Param(q url.Values, key string) (*uint32, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an unsigned 32-bit integer", apperr.ErrInvalidArgument, key)
	}
	id := uint32(v)
	return &id, nil
}
