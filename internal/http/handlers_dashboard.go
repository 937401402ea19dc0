package http

import (
	"net/http"
	"strconv"

	"farmhub/internal/core"
	"farmhub/internal/finance"
	"farmhub/internal/view"
	"farmhub/internal/weather"
)

// handleDashboard answers the per-farm summary from a fresh snapshot.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	farmID, err := parseFarmParam(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := s.loader.Refresh(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	dash, err := view.BuildDashboard(snap, farmID, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, dash)
}

type formattedTotals struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Profit  string `json:"profit"`
}

type statsResponse struct {
	finance.Stats
	Period       string                 `json:"period"`
	Formatted    formattedTotals        `json:"formatted"`
	Transactions []view.TransactionItem `json:"transactions"`
}

func (s *Server) handleFinanceStats(w http.ResponseWriter, r *http.Request) {
	p, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.Period == "" {
		p.Period = finance.PeriodMonth
	}
	rng := finance.Resolve(p.Period, s.now())

	key := cacheKey("stats", p.Period, rng.String(), strconv.FormatInt(p.FarmID, 10))
	resp, err := cached(s, key, func() (statsResponse, error) {
		txs, err := s.svc.Transactions.List(r.Context())
		if err != nil {
			return statsResponse{}, unavailable(err)
		}
		list := view.Transactions(txs, view.TransactionFilter{FarmID: p.FarmID, Range: rng})
		farmTxs := make([]core.Transaction, len(list.Items))
		for i, it := range list.Items {
			farmTxs[i] = it.Transaction
		}
		stats := finance.Compute(farmTxs, rng)
		return statsResponse{
			Stats:  stats,
			Period: p.Period,
			Formatted: formattedTotals{
				Income:  finance.Format(stats.Income),
				Expense: finance.Format(stats.Expense),
				Profit:  finance.Format(stats.Profit),
			},
			Transactions: list.Items,
		}, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

type categoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func categoryOptions(t core.TransactionType) []categoryOption {
	cats := core.CategoriesFor(t)
	out := make([]categoryOption, len(cats))
	for i, c := range cats {
		out[i] = categoryOption{Value: c, Label: finance.CategoryLabel(c)}
	}
	return out
}

func (s *Server) handleFinanceCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		string(core.Expense): categoryOptions(core.Expense),
		string(core.Income):  categoryOptions(core.Income),
		"periods":            finance.Periods,
	})
}

func (s *Server) forecast(r *http.Request) ([]core.WeatherDay, error) {
	return cached(s, cacheKey("weather"), func() ([]core.WeatherDay, error) {
		days, err := s.svc.Weather.List(r.Context())
		if err != nil {
			return nil, unavailable(err)
		}
		return days, nil
	})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	days, err := s.forecast(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]weather.Day, len(days))
	for i, d := range days {
		out[i] = weather.Describe(d)
	}
	writeJSON(w, map[string]any{"items": out, "total": len(out)})
}

func (s *Server) handleWeatherInsights(w http.ResponseWriter, r *http.Request) {
	days, err := s.forecast(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, weather.Summarize(days))
}

func (s *Server) handleWeatherDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	day, err := s.svc.Weather.Get(r.Context(), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, weather.Describe(day))
}
