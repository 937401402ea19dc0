package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"farmhub/internal/core"
	"farmhub/internal/finance"
	"farmhub/internal/loader"
	"farmhub/internal/log"
	"farmhub/internal/view"
)

// recordService is the CRUD surface every entity service exposes.
type recordService[T any, P any] interface {
	Entity() string
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int64, patch P) (T, error)
	Delete(ctx context.Context, id int64) (T, error)
}

// registerRecords mounts list, get, create, patch and delete under /api/{path}.
func registerRecords[T any, PT core.Record[T], P any, PP interface {
	*P
	Expect(int64)
}](s *Server, mux *http.ServeMux, path string, svc recordService[T, P], list http.HandlerFunc) {
	base := "/api/" + path

	mux.HandleFunc("GET "+base, list)

	mux.HandleFunc("GET "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		NewResponse().ETag(PT(&rec).Header().Revision).JSON(rec).Write(w)
	})

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		meta := PT(&rec).Header()
		s.recordChanged(r.Context(), log.OpCreate, svc.Entity(), meta, farmOf(rec))
		NewResponse().
			Status(http.StatusCreated).
			Header("Location", base+"/"+strconv.FormatInt(meta.ID, 10)).
			ETag(meta.Revision).
			JSON(rec).
			Write(w)
	})

	mux.HandleFunc("PATCH "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		expected, err := parseIfMatch(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var patch P
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, err)
			return
		}
		if expected != nil {
			PP(&patch).Expect(*expected)
		}
		rec, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		meta := PT(&rec).Header()
		s.recordChanged(r.Context(), log.OpUpdate, svc.Entity(), meta, farmOf(rec))
		NewResponse().ETag(meta.Revision).JSON(rec).Write(w)
	})

	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rec, err := svc.Delete(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.recordChanged(r.Context(), log.OpDelete, svc.Entity(), PT(&rec).Header(), farmOf(rec))
		writeJSON(w, rec)
	})
}

func (s *Server) recordChanged(ctx context.Context, op, entity string, meta *core.Meta, farmID int64) {
	s.invalidate()
	s.sl.LogRecordChanged(ctx, op, entity, meta.ID, meta.Revision, farmID)
}

func farmOf(rec any) int64 {
	switch r := rec.(type) {
	case core.Farm:
		return r.ID
	case core.Crop:
		return r.FarmID
	case core.Task:
		return r.FarmID
	case core.Transaction:
		return r.FarmID
	}
	return 0
}

// unavailable marks a store read failure as retryable.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", loader.ErrUnavailable, err)
}

func (s *Server) handleListFarms(w http.ResponseWriter, r *http.Request) {
	p, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := cached(s, cacheKey("farms", p.Query), func() (view.FarmList, error) {
		farms, err := s.svc.Farms.List(r.Context())
		if err != nil {
			return view.FarmList{}, unavailable(err)
		}
		return view.Farms(farms, p.Query), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleListCrops(w http.ResponseWriter, r *http.Request) {
	p, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	key := cacheKey("crops", strconv.FormatInt(p.FarmID, 10), p.Query, p.Filter)
	list, err := cached(s, key, func() (view.CropList, error) {
		crops, err := s.svc.Crops.List(r.Context())
		if err != nil {
			return view.CropList{}, unavailable(err)
		}
		return view.Crops(crops, view.CropFilter{FarmID: p.FarmID, Query: p.Query, Status: p.Filter}), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	p, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	now := s.now()
	// Overdue and today tabs move with the calendar day.
	key := cacheKey("tasks", core.DateOf(now).String(), strconv.FormatInt(p.FarmID, 10), p.Query, p.Filter)
	list, err := cached(s, key, func() (view.TaskList, error) {
		tasks, err := s.svc.Tasks.List(r.Context())
		if err != nil {
			return view.TaskList{}, unavailable(err)
		}
		return view.Tasks(tasks, view.TaskFilter{FarmID: p.FarmID, Query: p.Query, Tab: p.Filter}, now), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var rng finance.Range
	if p.Period != "" {
		rng = finance.Resolve(p.Period, s.now())
	}
	key := cacheKey("transactions", rng.String(), strconv.FormatInt(p.FarmID, 10), p.Query, p.Filter)
	list, err := cached(s, key, func() (view.TransactionList, error) {
		txs, err := s.svc.Transactions.List(r.Context())
		if err != nil {
			return view.TransactionList{}, unavailable(err)
		}
		return view.Transactions(txs, view.TransactionFilter{FarmID: p.FarmID, Query: p.Query, Tab: p.Filter, Range: rng}), nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	task, err := s.svc.Tasks.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.recordChanged(r.Context(), log.OpToggle, core.EntityTask, &task.Meta, task.FarmID)
	NewResponse().ETag(task.Revision).JSON(view.NewTaskItem(task, s.now())).Write(w)
}
