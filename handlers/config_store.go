package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/ambufleet/config"
	"p9e.in/ambufleet/middleware"
	"p9e.in/ambufleet/models"
)

// ConfigStore serves named configuration blobs (review item templates,
// configurable locations, kit defaults) with an in-memory cache that is
// invalidated on write. Replaces what the old clients kept in browser
// local storage.
type ConfigStore struct {
	db *gorm.DB

	mu    sync.RWMutex
	cache map[string]json.RawMessage
}

// NewConfigStore creates a config store over the shared database handle.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		db:    config.DB,
		cache: make(map[string]json.RawMessage),
	}
}

// Get returns the value for key, serving from cache when possible.
func (cs *ConfigStore) Get(key string) (json.RawMessage, error) {
	cs.mu.RLock()
	if value, ok := cs.cache[key]; ok {
		cs.mu.RUnlock()
		return value, nil
	}
	cs.mu.RUnlock()

	var row models.AppConfig
	if err := cs.db.First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}

	cs.mu.Lock()
	cs.cache[key] = json.RawMessage(row.Value)
	cs.mu.Unlock()
	return json.RawMessage(row.Value), nil
}

// Set upserts the value for key and invalidates the cached copy.
func (cs *ConfigStore) Set(key string, value json.RawMessage, updatedBy string) error {
	row := models.AppConfig{Key: key, Value: []byte(value), UpdatedBy: updatedBy}
	if err := cs.db.Save(&row).Error; err != nil {
		return err
	}

	cs.mu.Lock()
	delete(cs.cache, key)
	cs.mu.Unlock()
	return nil
}

// GetConfigValue is the read endpoint: GET /config/{key}.
func (cs *ConfigStore) GetConfigValue(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, err := cs.Get(key)
	if err != nil {
		http.Error(w, "config key not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"key":   key,
		"value": value,
	})
}

// SetConfigValue is the write endpoint: PUT /config/{key}.
func (cs *ConfigStore) SetConfigValue(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var body struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Value) == 0 {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user := middleware.GetUser(r)
	if err := cs.Set(key, body.Value, user.Name); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"key":   key,
		"value": body.Value,
	})
}
