package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"farmhub/internal/core"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    ListParams
		wantErr bool
	}{
		{
			name:  "empty query lists everything",
			query: url.Values{},
			want:  ListParams{},
		},
		{
			name:  "all values provided",
			query: url.Values{"farm": {"2"}, "q": {"  corn "}, "status": {"Growing"}, "period": {"lastMonth"}},
			want:  ListParams{FarmID: 2, Query: "corn", Filter: "growing", Period: "lastMonth"},
		},
		{
			name:  "tab wins over status",
			query: url.Values{"status": {"ready"}, "tab": {"overdue"}},
			want:  ListParams{Filter: "overdue"},
		},
		{
			name:    "invalid farm",
			query:   url.Values{"farm": {"abc"}},
			wantErr: true,
		},
		{
			name:    "negative farm",
			query:   url.Values{"farm": {"-1"}},
			wantErr: true,
		},
		{
			name:    "unknown period",
			query:   url.Values{"period": {"decade"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseListParams(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var bad badInput
				if !errors.As(err, &bad) {
					t.Errorf("expected badInput, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFarmParamRequired(t *testing.T) {
	if _, err := parseFarmParam(url.Values{}, true); err == nil {
		t.Error("expected error when farm is required")
	}
	id, err := parseFarmParam(url.Values{"farm": {"3"}}, true)
	if err != nil || id != 3 {
		t.Errorf("got %d, %v", id, err)
	}
}

func TestParseIfMatch(t *testing.T) {
	tests := []struct {
		header  string
		want    int64
		wantNil bool
		wantErr bool
	}{
		{header: "", wantNil: true},
		{header: "3", want: 3},
		{header: `"4"`, want: 4},
		{header: `W/"5"`, want: 5},
		{header: "zero", wantErr: true},
		{header: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPatch, "/", nil)
			if tt.header != "" {
				r.Header.Set("If-Match", tt.header)
			}
			got, err := parseIfMatch(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %d", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("got %v, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name   string     `json:"name"`
		Amount core.Money `json:"amount"`
	}

	tests := []struct {
		name       string
		input      string
		wantErr    bool
		wantBad    bool
		wantAmount int64
	}{
		{name: "valid", input: `{"name":"x","amount":12.5}`, wantAmount: 1250},
		{name: "empty", input: ``, wantErr: true, wantBad: true},
		{name: "malformed", input: `{"name":`, wantErr: true, wantBad: true},
		{name: "unknown field", input: `{"nope":1}`, wantErr: true, wantBad: true},
		{name: "trailing object", input: `{"name":"x"}{"name":"y"}`, wantErr: true, wantBad: true},
		{name: "invalid amount", input: `{"amount":"abc"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.input))
			var dst body
			err := decodeJSON(w, r, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			var bad badInput
			if tt.wantErr && errors.As(err, &bad) != tt.wantBad {
				t.Errorf("badInput = %v, want %v (err %v)", !tt.wantBad, tt.wantBad, err)
			}
			if !tt.wantErr && dst.Amount.Cents != tt.wantAmount {
				t.Errorf("amount = %d, want %d", dst.Amount.Cents, tt.wantAmount)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/crops/7", nil)
	r.SetPathValue("id", "7")
	if id, err := pathID(r); err != nil || id != 7 {
		t.Errorf("got %d, %v", id, err)
	}
	r.SetPathValue("id", "seven")
	if _, err := pathID(r); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"line1\nline2", "line1\nline2"},
		{"bell\x07char", "bellchar"},
		{"null\x00byte", "nullbyte"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
