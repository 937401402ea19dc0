package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"farmhub/internal/core"
	"farmhub/internal/finance"
)

const maxBodyBytes = 1 << 20

// ListParams holds the query parameters shared by the list endpoints.
type ListParams struct {
	FarmID int64
	Query  string
	// Filter is the status (crops) or tab (tasks, transactions) selector.
	Filter string
	Period string
}

// ParseListParams reads farm, q, status or tab, and period.
func ParseListParams(query url.Values) (ListParams, error) {
	var p ListParams
	farmID, err := parseFarmParam(query, false)
	if err != nil {
		return p, err
	}
	p.FarmID = farmID
	p.Query = sanitizeInput(query.Get("q"))
	p.Filter = strings.ToLower(sanitizeInput(query.Get("status")))
	if tab := strings.ToLower(sanitizeInput(query.Get("tab"))); tab != "" {
		p.Filter = tab
	}
	p.Period = sanitizeInput(query.Get("period"))
	if p.Period != "" && !slices.Contains(finance.Periods, p.Period) {
		return p, errBadInput(fmt.Sprintf("invalid period %q: must be one of %v", p.Period, finance.Periods))
	}
	return p, nil
}

// parseFarmParam reads the farm query parameter. Zero means all farms.
func parseFarmParam(query url.Values, required bool) (int64, error) {
	v := strings.TrimSpace(query.Get("farm"))
	if v == "" {
		if required {
			return 0, errBadInput("no farm selected")
		}
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadInput(fmt.Sprintf("invalid farm %q", v))
	}
	return id, nil
}

// pathID reads the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	v := r.PathValue("id")
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadInput(fmt.Sprintf("invalid id %q", v))
	}
	return id, nil
}

// parseIfMatch reads the expected revision from If-Match. Both 3 and "3"
// are accepted; an absent header returns nil.
func parseIfMatch(r *http.Request) (*int64, error) {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	if v == "" {
		return nil, nil
	}
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	rev, err := strconv.ParseInt(v, 10, 64)
	if err != nil || rev < 1 {
		return nil, errBadInput(fmt.Sprintf("invalid If-Match %q", r.Header.Get("If-Match")))
	}
	return &rev, nil
}

// decodeJSON reads one JSON object into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errBadInput("request body is empty")
		case errors.As(err, &maxErr):
			return errBadInput("request body is too large")
		case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrInvalidDate):
			return err
		default:
			return errBadInput("malformed JSON: " + err.Error())
		}
	}
	if dec.More() {
		return errBadInput("request body must hold a single JSON object")
	}
	return nil
}

func parseDateParam(v string) (core.Date, error) {
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, errBadInput(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", v))
	}
	return d, nil
}
