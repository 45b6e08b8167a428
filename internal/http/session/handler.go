package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/importer"
	"github.com/unlockgrowth/intake/internal/intake"
	"github.com/unlockgrowth/intake/internal/submit"
)

const maxUploadSize = 32 << 20

type Handler struct {
	svc       *intake.Service
	importSvc *importer.Service
	submitSvc *submit.Service
}

func NewHandler(svc *intake.Service, importSvc *importer.Service, submitSvc *submit.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
		submitSvc: submitSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Patch("/profile", h.updateProfile)
			r.Patch("/rows/{kind}/{rowID}", h.updateField)
		})

		r.Post("/rows/{kind}", h.addRow)
		r.Delete("/rows/{kind}/{rowID}", h.removeRow)

		r.Get("/totals", h.totals)
		r.Get("/coverage", h.coverage)
		r.Get("/summary", h.summary)

		r.Post("/import", h.importCashFlow)
		r.Post("/submit", h.submit)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateProfileRequest struct {
	Business      *businessDTO    `json:"business"`
	Owner         *ownerDTO       `json:"owner"`
	Connections   *connectionsDTO `json:"connections"`
	Consent       *consentDTO     `json:"consent"`
	CommunityNote *string         `json:"community_note"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Connections != nil && req.Connections.ReceiptCount < 0 {
		http.Error(w, "receipt_count must not be negative", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.UpdateProfile(r.Context(), id, req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (req updateProfileRequest) toParams() intake.ProfileParams {
	var p intake.ProfileParams

	if b := req.Business; b != nil {
		p.Business = &evidence.Business{
			Name:         b.Name,
			TradingName:  b.TradingName,
			ABN:          b.ABN,
			Structure:    b.Structure,
			YearsTrading: b.YearsTrading,
			StaffCount:   b.StaffCount,
			Sector:       b.Sector,
			Location:     b.Location,
			RemoteRural:  b.RemoteRural,
		}
	}

	if o := req.Owner; o != nil {
		p.Owner = &evidence.Owner{FullName: o.FullName, Address: o.Address, DOB: o.DOB, Verified: o.Verified}
	}

	if c := req.Connections; c != nil {
		p.Connections = &evidence.Connections{
			BankConnected:   c.BankConnected,
			POSConnected:    c.POSConnected,
			RatingsUploaded: c.RatingsUploaded,
			ReceiptCount:    c.ReceiptCount,
		}
	}

	if c := req.Consent; c != nil {
		p.Consent = &evidence.Consent{AIAnalysis: c.AIAnalysis, AnonymizedUse: c.AnonymizedUse}
	}

	p.CommunityNote = req.CommunityNote

	return p
}

func (h *Handler) addRow(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	kind, err := evidence.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rowID, err := h.svc.AddRow(r.Context(), id, kind)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addRowResponse{RowID: rowID, Session: toSessionResponse(sess)})
}

type updateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) updateField(w http.ResponseWriter, r *http.Request) {
	id, kind, rowID, ok := rowParams(w, r)
	if !ok {
		return
	}

	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateField(r.Context(), id, kind, rowID, req.Field, req.Value); err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) removeRow(w http.ResponseWriter, r *http.Request) {
	id, kind, rowID, ok := rowParams(w, r)
	if !ok {
		return
	}

	if err := h.svc.RemoveRow(r.Context(), id, kind, rowID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Totals(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTotalsResponse(t))
}

func (h *Handler) coverage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Coverage(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCoverageResponse(res))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sum, err := h.svc.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := w.Write([]byte(sum.Text())); err != nil {
			slog.Error("failed to write summary", "error", err)
		}

		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (h *Handler) importCashFlow(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	entries, err := h.importSvc.ImportFile(importer.Source(r.FormValue("source")), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	ids, err := h.svc.ImportCashFlow(r.Context(), id, entries)
	if err != nil {
		writeError(w, err)
		return
	}

	t, err := h.svc.Totals(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	writeJSON(w, http.StatusCreated, importResponse{Imported: len(ids), RowIDs: ids, Totals: toTotalsResponse(t)})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var attachments []submit.Attachment

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		files, err := openAttachments(r.MultipartForm)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		defer func() {
			for _, f := range files {
				f.Close()
			}
		}()

		attachments = files.attachments()
	}

	sess, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.submitSvc.Submit(r.Context(), sess, attachments)
	if err != nil {
		slog.Error("failed to submit session", "session_id", id, "error", err)
		writeError(w, err)

		return
	}

	switch {
	case res.PDF != nil:
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))

		if _, err := w.Write(res.PDF); err != nil {
			slog.Error("failed to write pdf", "error", err)
		}
	case res.PDFURL != "":
		writeJSON(w, http.StatusOK, submitResponse{PDFURL: res.PDFURL})
	default:
		sum, err := h.svc.Summary(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := toSummaryResponse(sum)
		writeJSON(w, http.StatusOK, submitResponse{Summary: &resp})
	}
}

type openFile struct {
	field    string
	filename string
	multipart.File
}

type openFiles []openFile

func (fs openFiles) attachments() []submit.Attachment {
	out := make([]submit.Attachment, 0, len(fs))
	for _, f := range fs {
		out = append(out, submit.Attachment{Field: f.field, Filename: f.filename, Content: f})
	}

	return out
}

// openAttachments opens every uploaded file in form field order. Fields
// are validated by the submit service.
func openAttachments(form *multipart.Form) (openFiles, error) {
	var files openFiles

	for _, field := range submit.AttachmentFields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				for _, o := range files {
					o.Close()
				}

				return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
			}

			files = append(files, openFile{field: field, filename: fh.Filename, File: f})
		}
	}

	for field := range form.File {
		if !slices.Contains(submit.AttachmentFields, field) {
			for _, o := range files {
				o.Close()
			}

			return nil, fmt.Errorf("%w: %q", submit.ErrUnknownAttachment, field)
		}
	}

	return files, nil
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func rowParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, evidence.Kind, uuid.UUID, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return uuid.Nil, "", uuid.Nil, false
	}

	kind, err := evidence.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, "", uuid.Nil, false
	}

	rowID, err := uuid.Parse(chi.URLParam(r, "rowID"))
	if err != nil {
		http.Error(w, "invalid row id", http.StatusBadRequest)
		return uuid.Nil, "", uuid.Nil, false
	}

	return id, kind, rowID, true
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, intake.ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, evidence.ErrUnknownKind),
		errors.Is(err, evidence.ErrUnknownField),
		errors.Is(err, evidence.ErrInvalidValue),
		errors.Is(err, importer.ErrNoMatchingHeader),
		errors.Is(err, importer.ErrUnknownSource),
		errors.Is(err, submit.ErrUnknownAttachment):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, submit.ErrBusinessNameRequired):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, submit.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, submit.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, submit.ErrWebhook):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
