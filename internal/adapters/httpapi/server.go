package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripsync-app/consensus-api/internal/app/consensus"
	"github.com/tripsync-app/consensus-api/internal/app/preferences"
	"github.com/tripsync-app/consensus-api/internal/app/trips"
	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/idempotency"
)

// Server is the HTTP adapter. Handlers decode the wire shape, delegate to the
// app services, and map app errors onto the error envelope.
type Server struct {
	Trips     *trips.Service
	Prefs     *preferences.Service
	Consensus *consensus.Service
	Idem      idempotency.Store
}

func NewServer(tripsSvc *trips.Service, prefsSvc *preferences.Service, consensusSvc *consensus.Service, idem idempotency.Store) *Server {
	return &Server{
		Trips:     tripsSvc,
		Prefs:     prefsSvc,
		Consensus: consensusSvc,
		Idem:      idem,
	}
}

// result is a handler outcome waiting to be written (or replayed).
type result struct {
	status  int
	payload any
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "unreadable request body", nil)
		return
	}

	s.runIdempotent(w, r, "POST /trips", caller, body, func() result {
		var req createTripRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return result{http.StatusBadRequest, apiError(r, "BAD_REQUEST", "malformed JSON body", nil)}
		}
		v, err := s.Trips.Create(r.Context(), domain.MemberID(caller), trips.CreateTripInput{Name: req.Name})
		if err != nil {
			return s.errResult(r, err)
		}
		return result{http.StatusCreated, tripResponseFromView(v)}
	})
}

func (s *Server) handleListMyTrips(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	vs, err := s.Trips.ListMine(r.Context(), domain.MemberID(caller))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	out := tripListResponse{Trips: make([]tripResponse, 0, len(vs))}
	for _, v := range vs {
		out.Trips = append(out.Trips, tripResponseFromView(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	v, err := s.Trips.Get(r.Context(), domain.MemberID(caller), tripIDParam(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripResponseFromView(v))
}

func (s *Server) handleJoinTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	s.runIdempotent(w, r, "POST /trips/{tripId}/members", caller, nil, func() result {
		v, err := s.Trips.Join(r.Context(), domain.MemberID(caller), tripIDParam(r))
		if err != nil {
			return s.errResult(r, err)
		}
		return result{http.StatusOK, tripResponseFromView(v)}
	})
}

func (s *Server) handlePutMyPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "unreadable request body", nil)
		return
	}

	s.runIdempotent(w, r, "PUT /trips/{tripId}/preferences/me", caller, body, func() result {
		var req putPreferenceRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return result{http.StatusBadRequest, apiError(r, "BAD_REQUEST", "malformed JSON body", nil)}
		}
		p, err := s.Prefs.Put(r.Context(), domain.MemberID(caller), tripIDParam(r), putInputFromRequest(req))
		if err != nil {
			return s.errResult(r, err)
		}
		return result{http.StatusOK, preferenceResponseFromDomain(p)}
	})
}

func (s *Server) handlePatchMyPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "unreadable request body", nil)
		return
	}

	s.runIdempotent(w, r, "PATCH /trips/{tripId}/preferences/me", caller, body, func() result {
		var req patchPreferenceRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return result{http.StatusBadRequest, apiError(r, "BAD_REQUEST", "malformed JSON body", nil)}
		}
		in, err := patchInputFromRequest(req)
		if err != nil {
			return result{http.StatusBadRequest, apiError(r, "BAD_REQUEST", "malformed JSON body", nil)}
		}
		p, err := s.Prefs.Patch(r.Context(), domain.MemberID(caller), tripIDParam(r), in)
		if err != nil {
			return s.errResult(r, err)
		}
		return result{http.StatusOK, preferenceResponseFromDomain(p)}
	})
}

func (s *Server) handleGetMyPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	p, err := s.Prefs.Get(r.Context(), domain.MemberID(caller), tripIDParam(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preferenceResponseFromDomain(p))
}

func (s *Server) handleDeleteMyPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	if err := s.Prefs.Delete(r.Context(), domain.MemberID(caller), tripIDParam(r)); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	ps, err := s.Prefs.ListForTrip(r.Context(), domain.MemberID(caller), tripIDParam(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	out := preferenceListResponse{Preferences: make([]preferenceResponse, 0, len(ps))}
	for _, p := range ps {
		out.Preferences = append(out.Preferences, preferenceResponseFromDomain(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetConsensus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	c, err := s.Consensus.GroupConsensus(r.Context(), domain.MemberID(caller), tripIDParam(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consensusResponseFromDomain(c))
}

// runIdempotent wraps a mutating handler with Idempotency-Key replay:
// - same key + same body: replay the stored success response
// - same key + different body: 409
// Responses are only stored on success; error outcomes stay retryable.
func (s *Server) runIdempotent(w http.ResponseWriter, r *http.Request, route string, caller string, body []byte, invoke func() result) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" || s.Idem == nil {
		res := invoke()
		writeJSON(w, res.status, res.payload)
		return
	}

	ctx := r.Context()
	sum := sha256.Sum256(body)
	bodyHash := hex.EncodeToString(sum[:])

	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: domain.SubjectID(caller),
		Method:  r.Method,
		Route:   route,
	}
	if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "idempotency lookup failed", nil)
		return
	} else if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSED", "idempotency key reused with a different payload", nil)
			return
		}
	} else {
		_ = s.Idem.Put(ctx, metaFP, idempotency.Record{
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   time.Now().UTC(),
		})
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if rec, ok, err := s.Idem.Get(ctx, respFP); err == nil && ok && rec.StatusCode >= 200 && rec.StatusCode < 300 {
		w.Header().Set("Content-Type", rec.ContentType)
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return
	}

	res := invoke()
	writeJSON(w, res.status, res.payload)

	if res.status >= 200 && res.status < 300 {
		if b, err := json.Marshal(res.payload); err == nil {
			_ = s.Idem.Put(ctx, respFP, idempotency.Record{
				StatusCode:  res.status,
				ContentType: "application/json",
				Body:        b,
				CreatedAt:   time.Now().UTC(),
			})
		}
	}
}

func (s *Server) errResult(r *http.Request, err error) result {
	status, code, message, details := appErrorParts(err)
	return result{status, apiError(r, code, message, details)}
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := appErrorParts(err)
	writeError(w, r, status, code, message, details)
}

func appErrorParts(err error) (int, string, string, map[string]any) {
	var te *trips.Error
	if errors.As(err, &te) {
		return te.Status, te.Code, te.Message, te.Details
	}
	var pe *preferences.Error
	if errors.As(err, &pe) {
		return pe.Status, pe.Code, pe.Message, pe.Details
	}
	var ce *consensus.Error
	if errors.As(err, &ce) {
		return ce.Status, ce.Code, ce.Message, ce.Details
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error", nil
}

func callerFromContext(w http.ResponseWriter, r *http.Request) (string, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return "", false
	}
	return sub, true
}

func tripIDParam(r *http.Request) domain.TripID {
	return domain.TripID(chi.URLParam(r, "tripId"))
}
