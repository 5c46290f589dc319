package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"sbbd/internal/models"
	"sbbd/internal/providers"
	"sbbd/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.BoardServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.BoardServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) CreateMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.CreateMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if !payload.Priority.Valid() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg, err := ac.service.CreateMessage(&payload)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Create message failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Purge()
	ac.writeJSON(w, http.StatusCreated, msg)
}

func (ac *ApiController) GetMessages(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "messages:all", func() (any, error) {
		return ac.service.Messages(), nil
	})
}

func (ac *ApiController) GetActiveMessages(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "messages:active", func() (any, error) {
		return ac.service.ActiveMessages(), nil
	})
}

func (ac *ApiController) GetMessagesPaginated(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := cast.ToInt(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := cast.ToInt(query.Get("page_size"))
	if pageSize < 1 {
		pageSize = services.DefaultPageSize
	}
	if pageSize > services.MaxPageSize {
		pageSize = services.MaxPageSize
	}

	cacheKey := "messages:page:" + query.Get("page") + ":" + query.Get("page_size")
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		return ac.service.ActiveMessagesPaginated(page, pageSize), nil
	})
}

func (ac *ApiController) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg, found := ac.service.GetMessage(id)
	if !found {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.writeJSON(w, http.StatusOK, msg)
}

func (ac *ApiController) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.UpdateMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.Priority != nil && !payload.Priority.Valid() {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg, found, err := ac.service.UpdateMessage(id, &payload)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Update message %s failed: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.cache.Purge()
	ac.writeJSON(w, http.StatusOK, msg)
}

func (ac *ApiController) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	removed, err := ac.service.DeleteMessage(id)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Delete message %s failed: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.cache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ToggleMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg, found, err := ac.service.ToggleMessage(id)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Toggle message %s failed: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.cache.Purge()
	ac.writeJSON(w, http.StatusOK, msg)
}

func (ac *ApiController) GetClients(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "clients:all", func() (any, error) {
		return ac.service.Clients(), nil
	})
}

func (ac *ApiController) GetOnlineClients(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "clients:online", func() (any, error) {
		return ac.service.OnlineClients(), nil
	})
}

// Heartbeat upserts the caller's client record. The record is replaced
// wholesale; a zero last_seen is stamped with the current time.
func (ac *ApiController) Heartbeat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.ClientStatus
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.LastSeen.IsZero() {
		payload.LastSeen = time.Now().UTC()
	}

	if err := ac.service.UpsertClient(&payload); err != nil {
		ac.logger.Errorf(providers.TypePost, "Client upsert failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// MarkClientOffline is tolerant of unknown ids: going offline twice or from
// a forgotten client is not an error.
func (ac *ApiController) MarkClientOffline(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	changed, err := ac.service.MarkClientOffline(id)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Mark client %s offline failed: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if changed {
		ac.cache.Purge()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func() (any, error) {
		return ac.service.Stats(), nil
	})
}
