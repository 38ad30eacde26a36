// Package webapi provides a web API for spam classification and model management.
package webapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/spamicity/app/storage"
	"github.com/umputun/spamicity/lib/spamcheck"
	"github.com/umputun/spamicity/lib/spamicity"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector
//go:generate moq --out mocks/samples.go --pkg mocks --with-resets --skip-ensure . SamplesStore
//go:generate moq --out mocks/checks.go --pkg mocks --with-resets --skip-ensure . ChecksStore
//go:generate moq --out mocks/dictionary.go --pkg mocks --with-resets --skip-ensure . DictionaryStore

const (
	defaultTermsLimit   = 20
	maxTermsLimit       = 1000
	defaultHistoryLimit = 50
	defaultSamplesLimit = 100
	maxRequestSize      = 1024 * 1024
)

// Server is a web API server.
type Server struct {
	Config
	cache     cache.Cache[string, spamcheck.Response]
	cacheLock sync.Mutex // serializes cache updates with purges on model change
}

// Config defines server parameters
type Config struct {
	Version    string          // version to show in app info headers
	ListenAddr string          // listen address
	Detector   Detector        // spam detector
	Samples    SamplesStore    // optional samples storage, enables /samples routes
	Dictionary DictionaryStore // optional stop words storage, enables /dictionary routes
	Checks     ChecksStore     // optional checks storage, recorded checks are returned by GET /history
	CheckLog   io.Writer       // optional writer for json lines of recorded checks
	Retrain    RetrainFunc     // optional model rebuild, enables PUT /model
	AuthUser   string          // basic auth user, "spamicity" by default
	AuthPasswd string          // basic auth password, auth disabled if empty
	RateLimit  float64         // max requests per second per client, 50 by default
	CacheSize  int             // max number of cached check results, 1000 by default
	CacheTTL   time.Duration   // ttl of cached check results, 5m by default
	Dbg        bool            // debug mode
}

// Detector is a spam detector interface.
type Detector interface {
	Check(req spamcheck.Request) spamcheck.Response
	Table() *spamicity.Table
	History(class spamicity.Class, n int) []spamcheck.Request
}

// SamplesStore is a storage of training samples
type SamplesStore interface {
	Add(ctx context.Context, t storage.SampleType, o storage.SampleOrigin, source, message string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, t storage.SampleType, o storage.SampleOrigin, limit int) ([]storage.SampleEntry, error)
	Stats(ctx context.Context) (*storage.SamplesStats, error)
}

// DictionaryStore is a storage of stop words
type DictionaryStore interface {
	Add(ctx context.Context, words ...string) error
	Delete(ctx context.Context, id int64) error
	Read(ctx context.Context) ([]storage.DictionaryEntry, error)
}

// ChecksStore is a storage of recorded checks
type ChecksStore interface {
	Write(ctx context.Context, req spamcheck.Request, resp spamcheck.Response) error
	Read(ctx context.Context, limit int) ([]storage.CheckEntry, error)
}

// RetrainFunc rebuilds the model from the configured corpus and installs it into the detector
type RetrainFunc func(ctx context.Context) (spamicity.LoadResult, error)

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	if config.AuthUser == "" {
		config.AuthUser = "spamicity"
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 50
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 1000
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &Server{
		Config: config,
		cache:  cache.NewCache[string, spamcheck.Response]().WithMaxKeys(config.CacheSize).WithTTL(config.CacheTTL),
	}
}

// Run starts server and accepts requests checking for spam messages.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.ListenAddr, Handler: s.router(), ReadTimeout: 5 * time.Second,
		WriteTimeout: 30 * time.Second, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

// ResetCache drops all cached check results, called on every model change
func (s *Server) ResetCache() {
	s.cacheLock.Lock()
	defer s.cacheLock.Unlock()
	s.cache.Purge()
}

// cacheResult keeps the check result unless the model was replaced while the message was checked
func (s *Server) cacheResult(msg string, checked *spamicity.Table, resp spamcheck.Response) {
	s.cacheLock.Lock()
	defer s.cacheLock.Unlock()
	if s.Detector.Table() != checked {
		return
	}
	s.cache.Set(msg, resp, 0)
}

func (s *Server) router() http.Handler {
	lmt := tollbooth.NewLimiter(s.RateLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()), rest.Throttle(1000))
	router.Use(rest.AppInfo("spamicity", "umputun", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(lmt))
	router.Use(rest.SizeLimit(maxRequestSize))

	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	router.Group().Route(func(api *routegroup.Bundle) {
		api.Use(s.authMiddleware(rest.BasicAuthWithUserPasswd(s.AuthUser, s.AuthPasswd)))
		api.HandleFunc("POST /check", s.checkHandler)               // check a message for spam
		api.HandleFunc("GET /model", s.modelHandler)                // model info
		api.HandleFunc("GET /model/terms", s.termsHandler)          // most spam and ham indicative terms
		api.HandleFunc("PUT /model", s.retrainHandler)              // rebuild model
		api.HandleFunc("POST /samples/{type}", s.addSampleHandler)  // add spam or ham sample
		api.HandleFunc("GET /samples/{type}", s.listSamplesHandler) // list samples of the type
		api.HandleFunc("DELETE /samples/{id}", s.deleteSampleHandler)
		api.HandleFunc("GET /samples", s.samplesStatsHandler) // samples statistics
		api.HandleFunc("GET /dictionary", s.dictionaryHandler)
		api.HandleFunc("POST /dictionary", s.addDictionaryHandler)
		api.HandleFunc("DELETE /dictionary/{id}", s.deleteDictionaryHandler)
		api.HandleFunc("GET /history", s.historyHandler) // recent checks
	})
	return router
}

// checkHandler handles POST /check request.
// it gets message text from request body and returns spam status and check results.
// Results of check_only requests are cached until the model changes.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := spamcheck.Request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}

	if req.CheckOnly {
		if resp, ok := s.cache.Get(req.Msg); ok {
			rest.RenderJSON(w, rest.JSON{"spam": resp.Spam, "probability": resp.Probability, "checks": []spamcheck.Response{resp}})
			return
		}
	}

	req.Timestamp = time.Now()
	table := s.Detector.Table()
	resp := s.Detector.Check(req)
	if resp.Error != nil {
		code := http.StatusInternalServerError
		if errors.Is(resp.Error, spamicity.ErrNotTrained) {
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		rest.RenderJSON(w, rest.JSON{"error": "can't check message", "details": resp.Error.Error()})
		return
	}

	if req.CheckOnly {
		s.cacheResult(req.Msg, table, resp)
	} else {
		s.recordCheck(r.Context(), req, resp)
	}
	checks := []spamcheck.Response{resp}
	if s.Dbg {
		log.Printf("[DEBUG] check %s -> %s", req.String(), spamcheck.ChecksToString(checks))
	}
	rest.RenderJSON(w, rest.JSON{"spam": resp.Spam, "probability": resp.Probability, "checks": checks})
}

// recordCheck writes the check to the storage and the check log, failures are only logged
func (s *Server) recordCheck(ctx context.Context, req spamcheck.Request, resp spamcheck.Response) {
	if s.Checks != nil {
		if err := s.Checks.Write(ctx, req, resp); err != nil {
			log.Printf("[WARN] can't save check: %v", err)
		}
	}
	if s.CheckLog == nil {
		return
	}
	entry := struct {
		spamcheck.Request
		Spam        bool    `json:"spam"`
		Probability float64 `json:"probability"`
		Details     string  `json:"details"`
	}{Request: req, Spam: resp.Spam, Probability: resp.Probability, Details: resp.Details}
	line, err := json.Marshal(&entry)
	if err != nil {
		log.Printf("[WARN] can't marshal check log entry: %v", err)
		return
	}
	if _, err := s.CheckLog.Write(append(line, '\n')); err != nil {
		log.Printf("[WARN] can't write check log: %v", err)
	}
}

// modelHandler handles GET /model request, returns info of the current table
func (s *Server) modelHandler(w http.ResponseWriter, _ *http.Request) {
	table := s.Detector.Table()
	if table == nil {
		rest.RenderJSON(w, rest.JSON{"trained": false})
		return
	}
	rest.RenderJSON(w, rest.JSON{"trained": true, "info": table.Info()})
}

// termsHandler handles GET /model/terms?limit=N request
func (s *Server) termsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, defaultTermsLimit, maxTermsLimit)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid limit", "details": err.Error()})
		return
	}
	spam, ham := s.Detector.Table().Top(limit)
	if spam == nil {
		spam = []spamicity.TermValue{}
	}
	if ham == nil {
		ham = []spamicity.TermValue{}
	}
	rest.RenderJSON(w, rest.JSON{"spam": spam, "ham": ham})
}

// retrainHandler handles PUT /model request, rebuilds the model and drops cached results
func (s *Server) retrainHandler(w http.ResponseWriter, r *http.Request) {
	if s.Retrain == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "model rebuild is not configured"})
		return
	}
	lr, err := s.Retrain(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't rebuild model", "details": err.Error()})
		return
	}
	s.ResetCache()
	rest.RenderJSON(w, rest.JSON{"rebuilt": true, "spam_samples": lr.SpamSamples, "ham_samples": lr.HamSamples,
		"stop_words": lr.StopWords, "terms": lr.Terms})
}

// addSampleHandler handles POST /samples/{type} request, stores a user sample of spam or ham
func (s *Server) addSampleHandler(w http.ResponseWriter, r *http.Request) {
	if s.Samples == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "samples storage is not configured"})
		return
	}
	sampleType := storage.SampleType(r.PathValue("type"))
	if err := sampleType.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid sample type", "details": err.Error()})
		return
	}

	req := struct {
		Msg    string `json:"msg"`
		Source string `json:"source"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Msg) == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "empty message"})
		return
	}
	if req.Source == "" {
		req.Source = "webapi"
	}

	if err := s.Samples.Add(r.Context(), sampleType, storage.SampleOriginUser, req.Source, req.Msg); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't add sample", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"added": true, "type": sampleType, "msg": req.Msg})
}

// listSamplesHandler handles GET /samples/{type}?origin=user&limit=N request, the newest samples first
func (s *Server) listSamplesHandler(w http.ResponseWriter, r *http.Request) {
	if s.Samples == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "samples storage is not configured"})
		return
	}
	sampleType := storage.SampleType(r.PathValue("type"))
	if err := sampleType.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid sample type", "details": err.Error()})
		return
	}
	origin := storage.SampleOriginAny
	if v := r.URL.Query().Get("origin"); v != "" {
		origin = storage.SampleOrigin(v)
	}
	if err := origin.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid sample origin", "details": err.Error()})
		return
	}
	limit, err := queryLimit(r, defaultSamplesLimit, maxTermsLimit)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid limit", "details": err.Error()})
		return
	}

	samples, err := s.Samples.List(r.Context(), sampleType, origin, limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't list samples", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"type": sampleType, "origin": origin, "samples": samples})
}

// deleteSampleHandler handles DELETE /samples/{id} request. The model keeps the sample until rebuilt.
func (s *Server) deleteSampleHandler(w http.ResponseWriter, r *http.Request) {
	if s.Samples == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "samples storage is not configured"})
		return
	}
	s.deleteByID(w, r, "sample", s.Samples.Delete)
}

// dictionaryHandler handles GET /dictionary request, returns stored stop words with their ids
func (s *Server) dictionaryHandler(w http.ResponseWriter, r *http.Request) {
	if s.Dictionary == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "dictionary storage is not configured"})
		return
	}
	words, err := s.Dictionary.Read(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't read dictionary", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"words": words})
}

// addDictionaryHandler handles POST /dictionary request with {"words": ["a", "b"]} body.
// Stop words take effect on the next model rebuild.
func (s *Server) addDictionaryHandler(w http.ResponseWriter, r *http.Request) {
	if s.Dictionary == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "dictionary storage is not configured"})
		return
	}
	req := struct {
		Words []string `json:"words"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		return
	}
	if len(req.Words) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "no words"})
		return
	}
	if err := s.Dictionary.Add(r.Context(), req.Words...); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't add words", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"added": true, "count": len(req.Words)})
}

// deleteDictionaryHandler handles DELETE /dictionary/{id} request
func (s *Server) deleteDictionaryHandler(w http.ResponseWriter, r *http.Request) {
	if s.Dictionary == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "dictionary storage is not configured"})
		return
	}
	s.deleteByID(w, r, "word", s.Dictionary.Delete)
}

func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, what string, delFn func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid id", "details": err.Error()})
		return
	}
	if err := delFn(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			code = http.StatusNotFound
		}
		w.WriteHeader(code)
		rest.RenderJSON(w, rest.JSON{"error": "can't delete " + what, "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"deleted": true, "id": id})
}

// samplesStatsHandler handles GET /samples request
func (s *Server) samplesStatsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Samples == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "samples storage is not configured"})
		return
	}
	stats, err := s.Samples.Stats(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't get samples stats", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, stats)
}

// historyHandler handles GET /history?limit=N request, returns recent checks from memory and storage
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, defaultHistoryLimit, maxTermsLimit)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid limit", "details": err.Error()})
		return
	}
	res := rest.JSON{
		"spam": s.Detector.History(spamicity.Spam, limit),
		"ham":  s.Detector.History(spamicity.Ham, limit),
	}
	if s.Checks != nil {
		entries, err := s.Checks.Read(r.Context(), limit)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			rest.RenderJSON(w, rest.JSON{"error": "can't read checks", "details": err.Error()})
			return
		}
		res["stored"] = entries
	}
	rest.RenderJSON(w, res)
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return mw
}

// queryLimit parses limit query parameter, empty means default
func queryLimit(r *http.Request, def, maxLimit int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("can't parse %q: %w", v, err)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return min(limit, maxLimit), nil
}

// GenerateRandomPassword generates a random password of a given length
func GenerateRandomPassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"
	const charsetLen = int64(len(charset))

	result := make([]byte, length)
	for i := range length {
		n, err := rand.Int(rand.Reader, big.NewInt(charsetLen))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
