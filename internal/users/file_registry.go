package users

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
)

// userList is the on-disk JSON shape
type userList struct {
	Users []int64 `json:"users"`
}

// FileRegistry implements Service over a JSON file. A missing or corrupt
// file degrades to an empty subscriber list.
type FileRegistry struct {
	path   string
	logger logger.Service
	mutex  sync.Mutex
}

// NewFileRegistry creates a new file-backed subscriber registry
func NewFileRegistry(path string, logger logger.Service) Service {
	return &FileRegistry{
		path:   path,
		logger: logger,
	}
}

// Add registers a subscriber
func (r *FileRegistry) Add(userID int64) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list := r.load()
	for _, id := range list.Users {
		if id == userID {
			return false
		}
	}

	list.Users = append(list.Users, userID)
	r.save(list)
	return true
}

// Remove unregisters a subscriber
func (r *FileRegistry) Remove(userID int64) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	list := r.load()
	for i, id := range list.Users {
		if id == userID {
			list.Users = append(list.Users[:i], list.Users[i+1:]...)
			r.save(list)
			return true
		}
	}
	return false
}

// List returns all subscriber IDs
func (r *FileRegistry) List() []int64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.load().Users
}

// Count returns the number of subscribers
func (r *FileRegistry) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.load().Users)
}

// load reads the registry file; callers must hold the mutex
func (r *FileRegistry) load() userList {
	var list userList

	content, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.LogError(context.Background(), logger.OpNotify, "", "Failed to read subscriber file", err, models.LogSeverityLow, nil)
		}
		return list
	}

	if err := json.Unmarshal(content, &list); err != nil {
		r.logger.LogError(context.Background(), logger.OpNotify, "", "Failed to decode subscriber file", err, models.LogSeverityLow, nil)
		return userList{}
	}
	return list
}

// save writes the registry file; callers must hold the mutex
func (r *FileRegistry) save(list userList) {
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		r.logger.LogError(context.Background(), logger.OpNotify, "", "Failed to encode subscriber file", err, models.LogSeverityLow, nil)
		return
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		r.logger.LogError(context.Background(), logger.OpNotify, "", "Failed to write subscriber file", err, models.LogSeverityLow, nil)
	}
}
