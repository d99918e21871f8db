package http

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/report"
)

const exportFilename = "equipment-substitutions.csv"

// SubstitutionHandler serves the substitution ledger, its summary and CSV export.
type SubstitutionHandler struct {
	substitutions SubstitutionService
	loc           *time.Location
}

// NewSubstitutionHandler reads date-only filter bounds as calendar days in loc and
// renders export dates in the same zone.
func NewSubstitutionHandler(substitutions SubstitutionService, loc *time.Location) *SubstitutionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SubstitutionHandler{substitutions: substitutions, loc: loc}
}

func (h *SubstitutionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var draft domain.SubstitutionDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.substitutions.Record(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubstitutionHandler) ListByRental(w http.ResponseWriter, r *http.Request) {
	subs, err := h.substitutions.ListByRental(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(subs))
}

func (h *SubstitutionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	subs, err := h.substitutions.ListAll(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(subs))
}

func (h *SubstitutionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.substitutions.Summary(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Export renders the filtered ledger as CSV. The body is buffered so a failure
// still produces a problem response instead of a truncated file.
func (h *SubstitutionHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	subs, err := h.substitutions.ListAll(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteSubstitutionsCSV(&buf, subs, h.loc); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseFilter reads supplier, reason, start_date, end_date and responsibility_shift.
// Date-only bounds are inclusive: end_date covers the whole day.
func (h *SubstitutionHandler) parseFilter(r *http.Request) (domain.SubstitutionFilter, error) {
	q := r.URL.Query()
	filter := domain.SubstitutionFilter{
		SupplierName: strings.TrimSpace(q.Get("supplier")),
	}

	if v := q.Get("reason"); v != "" {
		reason := domain.SubstitutionReason(v)
		if !reason.Valid() {
			return filter, domain.NewValidationError("reason", "must be one of defect, damage, upgrade, maintenance, wear")
		}
		filter.Reason = reason
	}

	if v := q.Get("start_date"); v != "" {
		from, _, err := h.parseBound(v)
		if err != nil {
			return filter, domain.NewValidationError("start_date", "must be YYYY-MM-DD or RFC 3339")
		}
		filter.From = &from
	}

	if v := q.Get("end_date"); v != "" {
		to, dateOnly, err := h.parseBound(v)
		if err != nil {
			return filter, domain.NewValidationError("end_date", "must be YYYY-MM-DD or RFC 3339")
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.To = &to
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, domain.NewValidationError("end_date", "must be on or after start_date")
	}

	if v := q.Get("responsibility_shift"); v != "" {
		only, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.NewValidationError("responsibility_shift", "must be a boolean")
		}
		filter.ResponsibilityShiftOnly = only
	}

	return filter, nil
}

func (h *SubstitutionHandler) parseBound(v string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(domain.DateLayout, v, h.loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}
